package syncx

import (
	"testing"
	"time"

	"github.com/petermattis/goid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReentrantLock_AcquireRelease(t *testing.T) {
	l := NewReentrantLock()

	require.NoError(t, l.Acquire())
	assert.True(t, l.Locked())
	assert.Equal(t, goid.Get(), l.Owner())

	require.NoError(t, l.Release())
	assert.False(t, l.Locked())
	assert.Equal(t, int64(0), l.Owner())
}

func TestReentrantLock_Reentrancy(t *testing.T) {
	l := NewReentrantLock()

	const depth = 5
	for i := 0; i < depth; i++ {
		require.NoError(t, l.Acquire())
	}
	for i := 0; i < depth-1; i++ {
		require.NoError(t, l.Release())
		assert.True(t, l.Locked(), "lock must stay held until the last release")
	}
	require.NoError(t, l.Release())
	assert.False(t, l.Locked())
}

func TestReentrantLock_ReleaseByNonOwner(t *testing.T) {
	l := NewReentrantLock()
	require.NoError(t, l.Acquire())
	defer func() { _ = l.Release() }()

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Release()
	}()
	require.ErrorIs(t, <-errCh, ErrNotOwner)
	assert.True(t, l.Locked(), "foreign release must not affect the lock")
}

func TestReentrantLock_ReleaseUnheld(t *testing.T) {
	l := NewReentrantLock()
	require.ErrorIs(t, l.Release(), ErrNotOwner)
}

func TestReentrantLock_AcquireTimeout(t *testing.T) {
	l := NewReentrantLock()
	require.NoError(t, l.Acquire())

	done := make(chan struct{})
	go func() {
		defer close(done)
		start := time.Now()
		ok, err := l.AcquireTimeout(50 * time.Millisecond)
		assert.NoError(t, err)
		assert.False(t, ok, "timed acquire of a held lock must expire")
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		assert.Empty(t, l.Waiting(), "expired waiter must deregister")
	}()
	<-done

	require.NoError(t, l.Release())

	ok, err := l.AcquireTimeout(50 * time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok, "timed acquire of a free lock must succeed")
	require.NoError(t, l.Release())
}

func TestReentrantLock_ContendedHandoff(t *testing.T) {
	l := NewReentrantLock()
	require.NoError(t, l.Acquire())

	acquired := make(chan int64)
	go func() {
		l.Lock()
		acquired <- l.Owner()
		l.Unlock()
	}()

	// The spawned goroutine must be blocked, not running.
	select {
	case <-acquired:
		t.Fatal("goroutine acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, l.Release())
	owner := <-acquired
	assert.NotEqual(t, goid.Get(), owner)
}

func TestReentrantLock_DeadlockHeuristic_StaleHold(t *testing.T) {
	l := NewReentrantLock()
	l.SetStaleThreshold(30 * time.Millisecond)

	require.NoError(t, l.Acquire())
	time.Sleep(60 * time.Millisecond)

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Acquire()
	}()
	require.ErrorIs(t, <-errCh, ErrDeadlockSuspected)

	require.NoError(t, l.Release())
}

func TestReentrantLock_DeadlockHeuristic_OwnerWaiting(t *testing.T) {
	l := NewReentrantLock()
	require.NoError(t, l.Acquire())

	// Simulate the 2-hop cycle proxy: the owner shows up in the waiting
	// set, as it would when blocked on a lock held by one of our waiters.
	l.state.Lock()
	if l.waiting == nil {
		l.waiting = make(map[int64]struct{})
	}
	l.waiting[l.owner] = struct{}{}
	l.state.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Acquire()
	}()
	require.ErrorIs(t, <-errCh, ErrDeadlockSuspected)
}

func TestReentrantLock_WaitingSnapshot(t *testing.T) {
	l := NewReentrantLock()
	require.NoError(t, l.Acquire())

	started := make(chan struct{})
	go func() {
		close(started)
		l.Lock()
		l.Unlock()
	}()
	<-started

	assert.Eventually(t, func() bool {
		return len(l.Waiting()) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, l.Release())
	assert.Eventually(t, func() bool {
		return len(l.Waiting()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestReentrantLock_ZeroValue(t *testing.T) {
	var l ReentrantLock
	l.Lock()
	assert.True(t, l.Locked())
	l.Unlock()
}
