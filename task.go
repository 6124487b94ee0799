package syncx

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TaskState is the lifecycle state of a Task.
type TaskState int32

const (
	// TaskPending means Start has not been called.
	TaskPending TaskState = iota
	// TaskRunning means the backing thread is live (including an initial
	// delay sleep).
	TaskRunning
	// TaskCompleted means the target returned a value.
	TaskCompleted
	// TaskFailed means the target returned an error or panicked.
	TaskFailed
	// TaskCancelled means Cancel won before the target ran to completion.
	TaskCancelled
)

// String returns the state name.
func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "PENDING"
	case TaskRunning:
		return "RUNNING"
	case TaskCompleted:
		return "COMPLETED"
	case TaskFailed:
		return "FAILED"
	case TaskCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Task runs a target once on its own thread, optionally after a delay, and
// records the outcome on a Future.
//
// Lifecycle: PENDING -> RUNNING -> {COMPLETED, FAILED, CANCELLED}, with
// CANCELLED also reachable directly from PENDING. A cancel that lands before
// the target starts (before Start, or during the delay sleep) suppresses the
// run entirely; a cancel while RUNNING cancels the thread's context and
// inherits the Thread.Terminate caveat about leaked locks.
type Task[T any] struct {
	id     uuid.UUID
	fn     func(ctx context.Context) (T, error)
	logger zerolog.Logger

	lock      *ReentrantLock
	state     TaskState
	thread    *Thread
	future    *Future[T]
	err       error
	startedAt time.Time
	endedAt   time.Time

	// cancelled interrupts the delay sleep, racing the timer the same way
	// a condition waiter races notify against timeout.
	cancelled *Event
}

// NewTask returns a pending task for fn.
func NewTask[T any](fn func(ctx context.Context) (T, error)) *Task[T] {
	return &Task[T]{
		id:        uuid.New(),
		fn:        fn,
		logger:    defaultLogger,
		lock:      NewReentrantLock(),
		cancelled: NewEvent(),
	}
}

// SetLogger overrides where a failing target is reported. Call before Start.
func (t *Task[T]) SetLogger(l zerolog.Logger) {
	t.logger = l.With().Str("task_id", t.id.String()).Logger()
}

// ID returns the task's identity, used in log fields.
func (t *Task[T]) ID() uuid.UUID {
	return t.id
}

// Start spawns the backing thread, which sleeps for delay (if positive)
// before invoking the target. It is one-shot: a task that has left PENDING
// fails with ErrTaskStarted. The returned future completes with the target's
// outcome, or with ErrTaskCancelled.
func (t *Task[T]) Start(delay time.Duration) (*Future[T], error) {
	if t.fn == nil {
		return nil, ErrNilTarget
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if t.state != TaskPending {
		return nil, ErrTaskStarted
	}

	t.state = TaskRunning
	t.startedAt = time.Now()
	t.future = NewFuture[T]()
	t.thread = NewThread(func(ctx context.Context) {
		t.run(ctx, delay)
	})
	if err := t.thread.Start(); err != nil {
		return nil, err
	}
	return t.future, nil
}

// Cancel moves the task to CANCELLED. From PENDING this has no side effect
// beyond the state change; from RUNNING it also cancels the backing thread's
// context and completes the future with ErrTaskCancelled. In a terminal
// state Cancel is a no-op returning false.
func (t *Task[T]) Cancel() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	switch t.state {
	case TaskPending:
		t.state = TaskCancelled
		return true
	case TaskRunning:
		t.state = TaskCancelled
		t.endedAt = time.Now()
		t.cancelled.Set()
		t.thread.Terminate()
		var zero T
		_ = t.future.Set(zero, ErrTaskCancelled)
		return true
	default:
		return false
	}
}

// State returns the current lifecycle state.
func (t *Task[T]) State() TaskState {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.state
}

// Err returns the failure recorded by a FAILED task, nil otherwise.
func (t *Task[T]) Err() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.err
}

// Future returns the result holder, nil before Start.
func (t *Task[T]) Future() *Future[T] {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.future
}

// ExecutionTime reports the elapsed time from RUNNING start to the terminal
// transition, or to now while still running. Zero before Start. Diagnostic
// only.
func (t *Task[T]) ExecutionTime() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.startedAt.IsZero() {
		return 0
	}
	if t.endedAt.IsZero() {
		return time.Since(t.startedAt)
	}
	return t.endedAt.Sub(t.startedAt)
}

func (t *Task[T]) run(ctx context.Context, delay time.Duration) {
	if delay > 0 {
		// An interruptible sleep: Cancel sets the event, winning over
		// the timeout exactly like a notify racing a waiter's timer.
		if t.cancelled.Wait(delay) {
			return
		}
	}

	t.lock.Lock()
	if t.state == TaskCancelled {
		t.lock.Unlock()
		return
	}
	t.lock.Unlock()

	var (
		value T
		err   error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = errPanic(r)
			}
		}()
		value, err = t.fn(ctx)
	}()

	t.lock.Lock()
	defer t.lock.Unlock()
	if t.state == TaskCancelled {
		// Cancel won the race; it already completed the future.
		return
	}
	t.endedAt = time.Now()
	if err != nil {
		t.state = TaskFailed
		t.err = err
		t.logger.Error().Err(err).Str("task_id", t.id.String()).Msg("task target failed")
		var zero T
		_ = t.future.Set(zero, err)
		return
	}
	t.state = TaskCompleted
	_ = t.future.Set(value, nil)
}
