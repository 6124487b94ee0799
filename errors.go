package syncx

import "fmt"

// Common errors returned by the toolkit.
var (
	// ErrDeadlockSuspected is returned by ReentrantLock.Acquire when the
	// deadlock heuristic fires before blocking. The heuristic is a
	// best-effort diagnostic (a 2-hop cycle proxy plus a staleness timeout);
	// it can miss longer cycles and must never be relied on for correctness.
	ErrDeadlockSuspected = &SyncError{msg: "potential deadlock detected"}

	// ErrNotOwner is returned when releasing a ReentrantLock, or notifying or
	// waiting on a Condition, from a goroutine that does not hold the lock.
	ErrNotOwner = &SyncError{msg: "lock not held by caller"}

	// ErrQueueFull is returned by TryPut when the queue is at capacity, and
	// by PutTimeout when the deadline expires before space frees up.
	ErrQueueFull = &SyncError{msg: "queue is full"}

	// ErrQueueEmpty is returned by TryGet when the queue holds no items, and
	// by GetTimeout when the deadline expires before an item arrives.
	ErrQueueEmpty = &SyncError{msg: "queue is empty"}

	// ErrSemaphoreOverflow is returned by BoundedSemaphore.Release when the
	// release would push the permit count past the initial ceiling. This
	// usually indicates a release without a matching acquire.
	ErrSemaphoreOverflow = &SyncError{msg: "semaphore released too many times"}

	// ErrInvalidCount is returned when a release count is less than one.
	ErrInvalidCount = &SyncError{msg: "count must be one or more"}

	// ErrThreadStarted is returned by Thread.Start when the thread has
	// already been started. Start is one-shot; threads cannot be restarted.
	ErrThreadStarted = &SyncError{msg: "thread already started"}

	// ErrThreadNotStarted is returned by Thread.Join before Start.
	ErrThreadNotStarted = &SyncError{msg: "thread not started"}

	// ErrNilTarget is returned when a nil function is given to a Thread,
	// Task, or WorkerPool.Submit.
	ErrNilTarget = &SyncError{msg: "target is nil"}

	// ErrFutureAlreadySet is returned by Future.Set after the first call.
	// A future completes exactly once.
	ErrFutureAlreadySet = &SyncError{msg: "future already completed"}

	// ErrFutureTimeout is returned by Future.GetTimeout when the deadline
	// expires before the future completes. Distinct from ErrNotReady.
	ErrFutureTimeout = &SyncError{msg: "timed out waiting for result"}

	// ErrNotReady is returned by Future.TryGet when the future has not
	// completed yet. Distinct from ErrFutureTimeout.
	ErrNotReady = &SyncError{msg: "result not ready"}

	// ErrTaskStarted is returned by Task.Start after the first call.
	ErrTaskStarted = &SyncError{msg: "task already started"}

	// ErrTaskCancelled completes a task's future when the task is cancelled
	// before its target ran to completion.
	ErrTaskCancelled = &SyncError{msg: "task cancelled"}

	// ErrPoolShutdown is returned when submitting to a pool after Shutdown.
	ErrPoolShutdown = &SyncError{msg: "pool is shutdown"}
)

// SyncError is the error type used throughout the toolkit. It wraps an
// optional underlying error and supports errors.Is / errors.As via Unwrap.
type SyncError struct {
	msg string
	err error
}

// Error returns a formatted error message, including the underlying error
// when one exists.
func (e *SyncError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("syncx: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("syncx: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e *SyncError) Unwrap() error {
	return e.err
}

// errInvalidConfig creates an error for invalid pool configuration.
func errInvalidConfig(msg string) error {
	return &SyncError{msg: "invalid config: " + msg}
}

// errPanic converts a recovered panic value into an error suitable for
// storing on a Future.
func errPanic(r interface{}) error {
	if err, ok := r.(error); ok {
		return &SyncError{msg: "target panicked", err: err}
	}
	return &SyncError{msg: fmt.Sprintf("target panicked: %v", r)}
}
