package syncx

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// workItem bundles a unit of work with its result holder for queuing.
type workItem[T any] struct {
	id     uuid.UUID
	fn     func(ctx context.Context) (T, error)
	future *Future[T]
}

// WorkerPool executes submitted work on a bounded set of persistent worker
// threads sharing one blocking queue. Workers are spawned lazily, one per
// submission, up to MaxWorkers, and are never shrunk.
//
// A failure (error or panic) in a work item is captured into that item's
// Future and surfaced only when the future is consulted; it never kills the
// worker or the pool.
type WorkerPool[T any] struct {
	config Config
	queue  *Queue[*workItem[T]]

	lock      *ReentrantLock
	workers   []*Thread
	shutdown  bool // monotonic: false -> true only
	submitted uint64
	completed uint64
	failed    uint64
}

// NewWorkerPool creates a pool with the given options.
func NewWorkerPool[T any](opts ...Option) (*WorkerPool[T], error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &WorkerPool[T]{
		config: config,
		queue:  NewQueue[*workItem[T]](config.QueueSize),
		lock:   NewReentrantLock(),
	}, nil
}

// Submit enqueues fn for execution and returns the future holding its
// eventual outcome. It blocks while the work queue is full, fails with
// ErrPoolShutdown once shutdown has begun, and opportunistically spawns one
// more worker when below the maximum.
func (p *WorkerPool[T]) Submit(fn func(ctx context.Context) (T, error)) (*Future[T], error) {
	return p.submit(fn, 0)
}

// SubmitTimeout is Submit, but gives up with ErrQueueFull when no queue
// space frees up within timeout.
func (p *WorkerPool[T]) SubmitTimeout(fn func(ctx context.Context) (T, error), timeout time.Duration) (*Future[T], error) {
	return p.submit(fn, timeout)
}

// Shutdown stops the pool. The flag flip is one-shot and monotonic; calls
// after the first are no-ops. When wait is true, one nil sentinel is
// enqueued per worker and every worker is joined before returning, so no
// worker is left running past the return.
func (p *WorkerPool[T]) Shutdown(wait bool) error {
	p.lock.Lock()
	if p.shutdown {
		p.lock.Unlock()
		return nil
	}
	p.shutdown = true
	workers := make([]*Thread, len(p.workers))
	copy(workers, p.workers)
	p.lock.Unlock()

	if !wait {
		return nil
	}
	for range workers {
		if err := p.queue.Put(nil); err != nil {
			return err
		}
	}
	for _, th := range workers {
		if _, err := th.Join(0); err != nil {
			return err
		}
	}
	return nil
}

// IsShutdown reports whether shutdown has begun.
func (p *WorkerPool[T]) IsShutdown() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.shutdown
}

// Workers returns the number of worker threads spawned so far.
func (p *WorkerPool[T]) Workers() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.workers)
}

// Stats returns a snapshot of pool activity.
func (p *WorkerPool[T]) Stats() Stats {
	depth := p.queue.Len()
	p.lock.Lock()
	defer p.lock.Unlock()
	return Stats{
		Workers:    len(p.workers),
		Submitted:  p.submitted,
		Completed:  p.completed,
		Failed:     p.failed,
		QueueDepth: depth,
	}
}

// spawnLocked starts one more persistent worker when below the maximum.
// Callers hold the pool lock.
func (p *WorkerPool[T]) spawnLocked() {
	if p.shutdown || len(p.workers) >= p.config.MaxWorkers {
		return
	}
	th := NewThread(p.worker)
	th.SetLogger(p.config.Logger)
	if err := th.Start(); err != nil {
		return
	}
	p.workers = append(p.workers, th)
}

// worker is the persistent loop each pool thread runs: dequeue an item,
// execute it, repeat until the nil sentinel arrives.
func (p *WorkerPool[T]) worker(ctx context.Context) {
	for {
		item, err := p.queue.Get()
		if err != nil {
			return
		}
		if item == nil {
			return
		}
		p.execute(ctx, item)
	}
}

func (p *WorkerPool[T]) execute(ctx context.Context, item *workItem[T]) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			_ = item.future.Set(zero, errPanic(r))
			p.recordFailure()
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(r)
			} else {
				p.config.Logger.Error().
					Str("work_id", item.id.String()).
					Msgf("recovered panic in work item: %v", r)
			}
		}
	}()

	value, err := item.fn(ctx)
	if err != nil {
		var zero T
		_ = item.future.Set(zero, err)
		p.recordFailure()
		p.config.Logger.Debug().
			Str("work_id", item.id.String()).
			Err(err).
			Msg("work item failed")
		return
	}
	_ = item.future.Set(value, nil)

	p.lock.Lock()
	p.completed++
	p.lock.Unlock()
}

func (p *WorkerPool[T]) recordFailure() {
	p.lock.Lock()
	p.failed++
	p.lock.Unlock()
}

// Drain discards all queued-but-unstarted work. Futures of discarded items
// never complete; intended for diagnostics and tests, not routine shutdown.
func (p *WorkerPool[T]) Drain() {
	p.queue.Clear()
}

func (p *WorkerPool[T]) submit(fn func(ctx context.Context) (T, error), timeout time.Duration) (*Future[T], error) {
	if fn == nil {
		return nil, ErrNilTarget
	}

	p.lock.Lock()
	if p.shutdown {
		p.lock.Unlock()
		return nil, ErrPoolShutdown
	}
	p.lock.Unlock()

	item := &workItem[T]{
		id:     uuid.New(),
		fn:     fn,
		future: NewFuture[T](),
	}
	if err := p.queue.PutTimeout(item, timeout); err != nil {
		return nil, err
	}

	p.lock.Lock()
	p.submitted++
	p.spawnLocked()
	p.lock.Unlock()

	return item.future, nil
}
