package syncx

// Stats is a snapshot of pool activity taken under the pool lock. The
// counters are consistent with each other at the moment of the call but may
// be stale by the time the caller inspects them.
type Stats struct {
	// Workers is the number of persistent worker threads spawned so far.
	// Grows lazily up to MaxWorkers, never shrinks.
	Workers int

	// Submitted is the number of work items accepted by Submit.
	Submitted uint64

	// Completed is the number of work items whose target returned a value.
	Completed uint64

	// Failed is the number of work items whose target returned an error or
	// panicked. Disjoint from Completed.
	Failed uint64

	// QueueDepth is the number of items waiting in the shared queue.
	QueueDepth int
}
