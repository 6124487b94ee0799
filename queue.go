package syncx

import "time"

// DefaultQueueCapacity is used when a queue is created with a non-positive
// capacity.
const DefaultQueueCapacity = 100

// backing is the ordered store behind a blocking queue. Implementations are
// not safe for concurrent use; the queue engine serializes every call under
// its lock.
type backing[T any] interface {
	push(item T)
	pop() T
	size() int
	reset()
}

// blockingQueue is the engine shared by the FIFO, LIFO and priority queues:
// one lock, a not-empty and a not-full condition, and a bounded backing
// store. Producers block while the store is full, consumers while it is
// empty, unless the non-blocking or timed variants are used.
type blockingQueue[T any] struct {
	store    backing[T]
	capacity int
	lock     *ReentrantLock
	notEmpty *Condition
	notFull  *Condition
}

func newBlockingQueue[T any](store backing[T], capacity int) *blockingQueue[T] {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	lock := NewReentrantLock()
	return &blockingQueue[T]{
		store:    store,
		capacity: capacity,
		lock:     lock,
		notEmpty: NewCondition(lock),
		notFull:  NewCondition(lock),
	}
}

// Put adds item, blocking while the queue is at capacity.
func (q *blockingQueue[T]) Put(item T) error {
	return q.put(item, true, 0)
}

// TryPut adds item without blocking, failing with ErrQueueFull at capacity.
func (q *blockingQueue[T]) TryPut(item T) error {
	return q.put(item, false, 0)
}

// PutTimeout adds item, blocking up to timeout for space and failing with
// ErrQueueFull on expiry. A non-positive timeout blocks indefinitely.
func (q *blockingQueue[T]) PutTimeout(item T, timeout time.Duration) error {
	return q.put(item, true, timeout)
}

// Get removes and returns the next item, blocking while the queue is empty.
func (q *blockingQueue[T]) Get() (T, error) {
	return q.get(true, 0)
}

// TryGet removes and returns the next item without blocking, failing with
// ErrQueueEmpty when there is none.
func (q *blockingQueue[T]) TryGet() (T, error) {
	return q.get(false, 0)
}

// GetTimeout removes and returns the next item, blocking up to timeout and
// failing with ErrQueueEmpty on expiry. A non-positive timeout blocks
// indefinitely.
func (q *blockingQueue[T]) GetTimeout(timeout time.Duration) (T, error) {
	return q.get(true, timeout)
}

// Len returns the number of queued items.
func (q *blockingQueue[T]) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.store.size()
}

// Cap returns the capacity bound.
func (q *blockingQueue[T]) Cap() int {
	return q.capacity
}

// Clear discards every queued item and wakes all blocked producers.
func (q *blockingQueue[T]) Clear() {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.store.reset()
	_ = q.notFull.NotifyAll() // cannot fail: lock is held
}

func (q *blockingQueue[T]) put(item T, block bool, timeout time.Duration) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	if !block {
		if q.store.size() >= q.capacity {
			return ErrQueueFull
		}
	} else {
		ok, err := q.notFull.WaitFor(func() bool {
			return q.store.size() < q.capacity
		}, timeout)
		if err != nil {
			return err
		}
		if !ok {
			return ErrQueueFull
		}
	}

	q.store.push(item)
	return q.notEmpty.Notify(1)
}

func (q *blockingQueue[T]) get(block bool, timeout time.Duration) (T, error) {
	var zero T

	q.lock.Lock()
	defer q.lock.Unlock()

	if !block {
		if q.store.size() == 0 {
			return zero, ErrQueueEmpty
		}
	} else {
		ok, err := q.notEmpty.WaitFor(func() bool {
			return q.store.size() > 0
		}, timeout)
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, ErrQueueEmpty
		}
	}

	item := q.store.pop()
	if err := q.notFull.Notify(1); err != nil {
		return item, err
	}
	return item, nil
}

// Queue is a bounded FIFO blocking queue: items dequeue in insertion order.
type Queue[T any] struct {
	*blockingQueue[T]
}

// NewQueue returns a FIFO queue bounded at capacity. A non-positive capacity
// defaults to DefaultQueueCapacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue[T]{newBlockingQueue[T](newRingDeque[T](capacity), capacity)}
}

// LifoQueue is a bounded LIFO blocking queue: Get returns the most recently
// inserted item.
type LifoQueue[T any] struct {
	*blockingQueue[T]
}

// NewLifoQueue returns a LIFO queue bounded at capacity.
func NewLifoQueue[T any](capacity int) *LifoQueue[T] {
	return &LifoQueue[T]{newBlockingQueue[T](&stack[T]{}, capacity)}
}

// ringDeque is a fixed-size circular buffer. Capacity is enforced by the
// queue engine, so push never observes a full buffer.
type ringDeque[T any] struct {
	buf  []T
	head int
	n    int
}

func newRingDeque[T any](capacity int) *ringDeque[T] {
	return &ringDeque[T]{buf: make([]T, capacity)}
}

func (d *ringDeque[T]) push(item T) {
	d.buf[(d.head+d.n)%len(d.buf)] = item
	d.n++
}

func (d *ringDeque[T]) pop() T {
	var zero T
	item := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) % len(d.buf)
	d.n--
	return item
}

func (d *ringDeque[T]) size() int {
	return d.n
}

func (d *ringDeque[T]) reset() {
	var zero T
	for i := range d.buf {
		d.buf[i] = zero
	}
	d.head = 0
	d.n = 0
}

// stack is a slice-backed LIFO store.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(item T) {
	s.items = append(s.items, item)
}

func (s *stack[T]) pop() T {
	var zero T
	last := len(s.items) - 1
	item := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return item
}

func (s *stack[T]) size() int {
	return len(s.items)
}

func (s *stack[T]) reset() {
	s.items = nil
}
