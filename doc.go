// Package syncx is a self-contained concurrency toolkit that derives rich
// synchronization primitives from a deliberately minimal host surface: raw
// goroutine spawning, an untimed non-reentrant mutex, and a one-shot timer
// callback. It was extracted from an embedded voice-assistant client whose
// audio, speech and network layers are ordinary consumers of these types.
//
// Every timed wait, broadcast, bounded block and cancellation path here is
// built rather than borrowed: the core never reaches for channels,
// sync.Cond, sync.WaitGroup or semaphore packages for its own blocking
// semantics.
//
// # Primitives
//
//   - ReentrantLock: ownership-tracked, reentrant, with timed acquisition
//     and a heuristic deadlock check.
//   - Condition: monitor-style condition variable with FIFO wakeups and
//     per-waiter timeout gates.
//   - Event / EventSet: boolean and bitmask signaling with broadcast wakeup
//     and atomic consume-on-wait.
//   - Semaphore / BoundedSemaphore: counting permits, with overflow
//     detection in the bounded variant.
//   - Queue / LifoQueue / PriorityQueue: bounded blocking queues sharing one
//     lock between a not-empty and a not-full condition.
//   - Thread: a one-shot join-able wrapper over a raw goroutine with
//     cooperative termination.
//   - Future: a single-shot result-or-failure holder.
//   - Task: a cancellable deferred task with a PENDING/RUNNING/terminal
//     state machine.
//   - WorkerPool: a fixed-maximum pool of persistent workers fed by a shared
//     blocking queue, handing a Future back per submission.
//
// # Quick start
//
// Run work on a pool and collect results through futures:
//
//	pool, err := syncx.NewWorkerPool[string](
//	    syncx.WithMaxWorkers(4),
//	    syncx.WithQueueSize(64),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Shutdown(true)
//
//	fut, err := pool.Submit(func(ctx context.Context) (string, error) {
//	    return transcribe(ctx, clip)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := fut.GetTimeout(5 * time.Second)
//
// Coordinate state with a condition variable:
//
//	lock := syncx.NewReentrantLock()
//	ready := syncx.NewCondition(lock)
//
//	lock.Lock()
//	ok, err := ready.WaitFor(func() bool { return buffered > 0 }, time.Second)
//	lock.Unlock()
//
// # Timeouts
//
// Blocking calls take a time.Duration timeout; a non-positive value blocks
// indefinitely. Timeout expiry is reported as a false return (locks,
// conditions, events, semaphores) or as a dedicated error (queues report
// ErrQueueFull/ErrQueueEmpty, futures report ErrFutureTimeout), always
// distinguished from capacity exhaustion and from "not ready".
//
// # Error taxonomy
//
// Capacity errors (ErrQueueFull, ErrQueueEmpty) are expected control flow.
// Protocol errors (ErrNotOwner, ErrSemaphoreOverflow, ErrThreadStarted,
// ErrTaskStarted, ErrFutureAlreadySet) indicate programmer mistakes and fail
// loudly. ErrDeadlockSuspected is a best-effort diagnostic, never a
// correctness guarantee. Failures raised by user-supplied work inside Task
// or WorkerPool are captured into the associated Future and never crash the
// machinery that ran them.
//
// # Cancellation
//
// Cancellation is cooperative. Thread.Terminate and Task.Cancel cancel the
// target's context and mark the thread stopped; a target that ignores its
// context keeps running, and any ReentrantLock it holds must be treated as
// leaked. Avoid holding locks across cancellable regions.
package syncx
