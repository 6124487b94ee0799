package syncx

import (
	"sync"
	"time"
)

// Future is a single-shot holder for the result of asynchronous work: a
// value or a failure, set exactly once. Consumers block on Get until the
// outcome arrives, or poll with TryGet.
type Future[T any] struct {
	done *Event

	mu    sync.Mutex
	value T
	err   error
	set   bool
}

// NewFuture returns an incomplete future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: NewEvent()}
}

// Set completes the future with a value or a failure and wakes every waiter.
// A second call fails with ErrFutureAlreadySet.
func (f *Future[T]) Set(value T, err error) error {
	f.mu.Lock()
	if f.set {
		f.mu.Unlock()
		return ErrFutureAlreadySet
	}
	f.value = value
	f.err = err
	f.set = true
	f.mu.Unlock()

	f.done.Set()
	return nil
}

// Get blocks until the future completes, then returns the stored value or
// replays the stored failure.
func (f *Future[T]) Get() (T, error) {
	f.done.Wait(0)
	return f.outcome()
}

// GetTimeout is Get with a deadline. Expiry fails with ErrFutureTimeout,
// which is distinct from both ErrNotReady and any stored failure. A
// non-positive timeout blocks indefinitely.
func (f *Future[T]) GetTimeout(timeout time.Duration) (T, error) {
	if f.done.Wait(timeout) {
		return f.outcome()
	}
	var zero T
	return zero, ErrFutureTimeout
}

// TryGet returns the stored outcome when the future is complete and fails
// with ErrNotReady otherwise.
func (f *Future[T]) TryGet() (T, error) {
	if !f.done.IsSet() {
		var zero T
		return zero, ErrNotReady
	}
	return f.outcome()
}

// Done reports whether the future has completed.
func (f *Future[T]) Done() bool {
	return f.done.IsSet()
}

func (f *Future[T]) outcome() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}
