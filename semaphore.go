package syncx

import (
	"fmt"
	"time"
)

// Semaphore is a counting semaphore. Acquire takes a permit, blocking while
// none are available; Release returns permits and wakes blocked acquirers.
type Semaphore struct {
	cond  *Condition
	value int
}

// NewSemaphore returns a semaphore holding value permits. It panics when
// value is negative.
func NewSemaphore(value int) *Semaphore {
	if value < 0 {
		panic(fmt.Sprintf("syncx: semaphore initial value must be >= 0, got %d", value))
	}
	return &Semaphore{cond: NewCondition(nil), value: value}
}

// Acquire takes one permit, blocking until one is available or the timeout
// expires. It reports whether a permit was taken. A non-positive timeout
// blocks indefinitely.
func (s *Semaphore) Acquire(timeout time.Duration) bool {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	ok, err := s.cond.WaitFor(func() bool { return s.value > 0 }, timeout)
	if err != nil || !ok {
		return false
	}
	s.value--
	return true
}

// TryAcquire takes one permit without blocking, reporting whether it did.
func (s *Semaphore) TryAcquire() bool {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	if s.value > 0 {
		s.value--
		return true
	}
	return false
}

// Release returns n permits and wakes up to n waiters. n must be one or
// more.
func (s *Semaphore) Release(n int) error {
	if n < 1 {
		return ErrInvalidCount
	}
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.value += n
	return s.cond.Notify(n)
}

// Counts returns the number of available permits. Diagnostic only: the value
// may be stale by the time the caller looks at it.
func (s *Semaphore) Counts() int {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	return s.value
}

// Drain resets the permit count to zero.
func (s *Semaphore) Drain() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.value = 0
}

// BoundedSemaphore is a Semaphore with an immutable ceiling: releasing more
// permits than were acquired fails with ErrSemaphoreOverflow, which catches
// release-without-matching-acquire bugs.
type BoundedSemaphore struct {
	Semaphore
	ceiling int
}

// NewBoundedSemaphore returns a bounded semaphore holding value permits,
// which is also its ceiling. It panics when value is negative.
func NewBoundedSemaphore(value int) *BoundedSemaphore {
	if value < 0 {
		panic(fmt.Sprintf("syncx: semaphore initial value must be >= 0, got %d", value))
	}
	return &BoundedSemaphore{
		Semaphore: Semaphore{cond: NewCondition(nil), value: value},
		ceiling:   value,
	}
}

// Release returns n permits, failing with ErrSemaphoreOverflow when the
// resulting count would exceed the initial ceiling.
func (s *BoundedSemaphore) Release(n int) error {
	if n < 1 {
		return ErrInvalidCount
	}
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	if s.value+n > s.ceiling {
		return ErrSemaphoreOverflow
	}
	s.value += n
	return s.cond.Notify(n)
}
