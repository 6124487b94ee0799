package syncx

// PriorityQueue is a bounded blocking queue that dequeues the minimum element
// according to a caller-supplied ordering. The backing store is a binary
// min-heap; ordering among equal-priority items is unspecified (the heap is
// not stable). Callers needing FIFO among equal priorities should fold a
// monotonic sequence number into their ordering.
type PriorityQueue[T any] struct {
	*blockingQueue[T]
}

// NewPriorityQueue returns a priority queue bounded at capacity. less
// reports whether a sorts before b; the element for which less is true
// against all others dequeues first. A nil less panics.
func NewPriorityQueue[T any](capacity int, less func(a, b T) bool) *PriorityQueue[T] {
	if less == nil {
		panic("syncx: priority queue requires an ordering")
	}
	return &PriorityQueue[T]{newBlockingQueue[T](&minHeap[T]{less: less}, capacity)}
}

// minHeap is a slice-backed binary min-heap ordered by less.
type minHeap[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *minHeap[T]) push(item T) {
	h.items = append(h.items, item)
	h.siftUp(len(h.items) - 1)
}

// pop swaps the root with the last element, shrinks the slice, and restores
// heap order by sifting the new root down.
func (h *minHeap[T]) pop() T {
	var zero T
	root := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items[last] = zero
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return root
}

func (h *minHeap[T]) size() int {
	return len(h.items)
}

func (h *minHeap[T]) reset() {
	h.items = nil
}

func (h *minHeap[T]) siftUp(pos int) {
	item := h.items[pos]
	for pos > 0 {
		parent := (pos - 1) / 2
		if !h.less(item, h.items[parent]) {
			break
		}
		h.items[pos] = h.items[parent]
		pos = parent
	}
	h.items[pos] = item
}

func (h *minHeap[T]) siftDown(pos int) {
	end := len(h.items)
	item := h.items[pos]
	for {
		child := 2*pos + 1
		if child >= end {
			break
		}
		if right := child + 1; right < end && h.less(h.items[right], h.items[child]) {
			child = right
		}
		if !h.less(h.items[child], item) {
			break
		}
		h.items[pos] = h.items[child]
		pos = child
	}
	h.items[pos] = item
}
