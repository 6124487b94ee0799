package syncx

import "time"

// Event is a boolean flag that goroutines can wait on. Set wakes every
// waiter; the flag stays set until Clear.
type Event struct {
	cond *Condition
	flag bool
}

// NewEvent returns a cleared event.
func NewEvent() *Event {
	return &Event{cond: NewCondition(nil)}
}

// Set raises the flag and wakes all waiters.
func (e *Event) Set() {
	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	e.flag = true
	_ = e.cond.NotifyAll() // cannot fail: lock is held
}

// Clear lowers the flag.
func (e *Event) Clear() {
	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	e.flag = false
}

// IsSet reports whether the flag is raised.
func (e *Event) IsSet() bool {
	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	return e.flag
}

// Wait blocks until the flag is set or the timeout expires, reporting whether
// the flag was set. A non-positive timeout blocks indefinitely.
func (e *Event) Wait(timeout time.Duration) bool {
	return e.wait(timeout, false)
}

// WaitAndClear is Wait, but on success the flag is consumed in the same
// critical section, so no other waiter can observe the already-consumed
// state.
func (e *Event) WaitAndClear(timeout time.Duration) bool {
	return e.wait(timeout, true)
}

func (e *Event) wait(timeout time.Duration, clear bool) bool {
	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	ok, err := e.cond.WaitFor(func() bool { return e.flag }, timeout)
	if err != nil {
		return false
	}
	if ok && clear {
		e.flag = false
	}
	return ok
}

// EventSet generalizes Event to a 32-bit mask of independent flags. Waiters
// can require all bits of a mask (Wait) or any bit (WaitAny), optionally
// consuming the satisfied bits atomically with the successful wait.
type EventSet struct {
	cond *Condition
	bits uint32
}

// NewEventSet returns an event set with no bits raised.
func NewEventSet() *EventSet {
	return &EventSet{cond: NewCondition(nil)}
}

// Set ORs mask into the stored bits and wakes all waiters.
func (s *EventSet) Set(mask uint32) {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.bits |= mask
	_ = s.cond.NotifyAll() // cannot fail: lock is held
}

// Clear lowers every bit in mask.
func (s *EventSet) Clear(mask uint32) {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.bits &^= mask
}

// IsSet reports whether every bit in mask is raised.
func (s *EventSet) IsSet(mask uint32) bool {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	return s.bits&mask == mask
}

// IsSetAny reports whether at least one bit in mask is raised.
func (s *EventSet) IsSetAny(mask uint32) bool {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	return s.bits&mask != 0
}

// Wait blocks until every bit in mask is raised or the timeout expires. When
// clear is true the satisfied bits are lowered under the same critical
// section as the successful check.
func (s *EventSet) Wait(mask uint32, timeout time.Duration, clear bool) bool {
	return s.wait(mask, timeout, clear, func() bool {
		return s.bits&mask == mask
	})
}

// WaitAny blocks until at least one bit in mask is raised or the timeout
// expires.
func (s *EventSet) WaitAny(mask uint32, timeout time.Duration, clear bool) bool {
	return s.wait(mask, timeout, clear, func() bool {
		return s.bits&mask != 0
	})
}

func (s *EventSet) wait(mask uint32, timeout time.Duration, clear bool, satisfied func() bool) bool {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	ok, err := s.cond.WaitFor(satisfied, timeout)
	if err != nil {
		return false
	}
	if ok && clear {
		s.bits &^= mask
	}
	return ok
}
