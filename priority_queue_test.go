package syncx

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLess(a, b int) bool { return a < b }

func TestPriorityQueue_MinFirst(t *testing.T) {
	q := NewPriorityQueue[int](10, intLess)
	for _, v := range []int{5, 1, 3} {
		require.NoError(t, q.Put(v))
	}
	for _, want := range []int{1, 3, 5} {
		got, err := q.Get()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPriorityQueue_SortedDrain(t *testing.T) {
	const n = 64
	q := NewPriorityQueue[int](n, intLess)

	values := rand.Perm(n)
	for _, v := range values {
		require.NoError(t, q.Put(v))
	}

	drained := make([]int, 0, n)
	for i := 0; i < n; i++ {
		v, err := q.Get()
		require.NoError(t, err)
		drained = append(drained, v)
	}
	assert.True(t, sort.IntsAreSorted(drained), "heap must drain in ascending order")
}

func TestPriorityQueue_CustomOrdering(t *testing.T) {
	type utterance struct {
		priority int
		text     string
	}
	q := NewPriorityQueue[utterance](8, func(a, b utterance) bool {
		return a.priority < b.priority
	})

	require.NoError(t, q.Put(utterance{priority: 2, text: "weather"}))
	require.NoError(t, q.Put(utterance{priority: 0, text: "stop"}))
	require.NoError(t, q.Put(utterance{priority: 1, text: "volume"}))

	first, err := q.Get()
	require.NoError(t, err)
	assert.Equal(t, "stop", first.text, "lowest priority value dequeues first")
}

func TestPriorityQueue_CapacityBound(t *testing.T) {
	q := NewPriorityQueue[int](2, intLess)
	require.NoError(t, q.TryPut(2))
	require.NoError(t, q.TryPut(1))
	require.ErrorIs(t, q.TryPut(3), ErrQueueFull)

	got, err := q.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	require.NoError(t, q.TryPut(3))
}

func TestPriorityQueue_BlockingGet(t *testing.T) {
	q := NewPriorityQueue[int](4, intLess)
	got := make(chan int, 1)

	go func() {
		v, err := q.Get()
		assert.NoError(t, err)
		got <- v
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.Put(7))
	assert.Equal(t, 7, <-got)
}

func TestPriorityQueue_NilOrderingPanics(t *testing.T) {
	assert.Panics(t, func() { NewPriorityQueue[int](4, nil) })
}

func TestPriorityQueue_Clear(t *testing.T) {
	q := NewPriorityQueue[int](4, intLess)
	require.NoError(t, q.Put(3))
	require.NoError(t, q.Put(1))
	q.Clear()
	assert.Equal(t, 0, q.Len())
	_, err := q.TryGet()
	require.ErrorIs(t, err, ErrQueueEmpty)
}
