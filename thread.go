package syncx

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/petermattis/goid"
	"github.com/rs/zerolog"
)

// Thread wraps a raw spawned goroutine with a one-shot lifecycle: Start,
// Join with timeout, and best-effort termination.
//
// The target receives a context that is cancelled by Terminate. Termination
// is cooperative: a target that never checks its context keeps running, and
// any ReentrantLock it holds at that point must be treated as leaked. Design
// targets so no lock is held across a cancellable region.
//
// A panic in the target is recovered and logged, never propagated to the
// creator; the completion event is always set on exit, so Join cannot hang
// on thread death.
type Thread struct {
	target func(ctx context.Context)
	done   *Event
	logger zerolog.Logger

	mu      sync.Mutex
	started bool
	running bool
	id      int64
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewThread returns an unstarted thread running target.
func NewThread(target func(ctx context.Context)) *Thread {
	return &Thread{
		target: target,
		done:   NewEvent(),
		logger: defaultLogger,
	}
}

// SetLogger overrides where a panicking target is reported. Call before
// Start.
func (t *Thread) SetLogger(l zerolog.Logger) {
	t.logger = l
}

// Start spawns the underlying goroutine. It is one-shot: starting twice
// fails with ErrThreadStarted, including after the thread has finished.
func (t *Thread) Start() error {
	if t.target == nil {
		return ErrNilTarget
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrThreadStarted
	}
	t.started = true
	t.running = true
	t.ctx, t.cancel = context.WithCancel(context.Background())

	go t.bootstrap()
	return nil
}

// Join blocks until the thread finishes or the timeout expires, reporting
// whether it finished. Calling Join before Start fails with
// ErrThreadNotStarted. A non-positive timeout blocks indefinitely.
func (t *Thread) Join(timeout time.Duration) (bool, error) {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if !started {
		return false, ErrThreadNotStarted
	}
	return t.done.Wait(timeout), nil
}

// Terminate requests a best-effort forced stop: the target's context is
// cancelled and the thread is immediately marked stopped so joiners wake up.
// The goroutine itself only exits when the target honors the cancellation;
// see the type comment for the lock-leak caveat.
func (t *Thread) Terminate() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.running = false
	t.id = 0
	t.mu.Unlock()

	t.done.Set()
}

// IsRunning reports best-effort liveness: true between Start and the
// target's exit or Terminate.
func (t *Thread) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// ID returns the goroutine ID of the running thread, or 0 before Start and
// after exit or Terminate.
func (t *Thread) ID() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

// Context returns the context handed to the target, or nil before Start.
func (t *Thread) Context() context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ctx
}

func (t *Thread) bootstrap() {
	t.mu.Lock()
	if t.running {
		t.id = goid.Get()
	}
	ctx := t.ctx
	t.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().
				Int64("thread_id", goid.Get()).
				Str("stack", string(debug.Stack())).
				Msgf("recovered panic in thread target: %v", r)
		}
		t.mu.Lock()
		t.running = false
		t.id = 0
		t.cancel()
		t.mu.Unlock()
		t.done.Set()
	}()

	t.target(ctx)
}
