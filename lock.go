package syncx

import (
	"sync"
	"time"

	"github.com/petermattis/goid"
)

const (
	// defaultStaleThreshold is how long a lock may be held continuously
	// before the deadlock heuristic treats it as suspect.
	defaultStaleThreshold = 30 * time.Second

	// acquirePollInterval is the sleep between TryLock attempts on the
	// timed acquisition path. The raw lock has no native timed wait, so a
	// deadline is honored by polling.
	acquirePollInterval = time.Millisecond
)

// ReentrantLock is a mutual-exclusion lock that the owning goroutine may
// acquire repeatedly. Each acquisition must be matched by one Release; the
// underlying raw lock is released only when the reentrancy depth returns to
// zero.
//
// On top of the host's untimed, non-reentrant mutex it adds ownership
// tracking, timed acquisition, and a heuristic deadlock check. The zero value
// is an unheld lock ready for use.
//
// The deadlock check fires when the recorded owner is itself blocked in the
// waiting set of this lock, or when the lock has been held continuously for
// longer than a staleness threshold. It is a diagnostic aid only: it detects
// a narrow 2-hop pattern and long holds, not arbitrary cycles.
type ReentrantLock struct {
	raw sync.Mutex // the host's untimed, non-reentrant lock

	// state guards all bookkeeping below. It is never held while blocking
	// on raw.
	state      sync.Mutex
	owner      int64 // goroutine ID of the holder, 0 when unheld
	depth      int
	waiting    map[int64]struct{}
	acquiredAt time.Time
	staleAfter time.Duration // 0 means defaultStaleThreshold
}

// NewReentrantLock returns an unheld lock. Equivalent to new(ReentrantLock).
func NewReentrantLock() *ReentrantLock {
	return &ReentrantLock{}
}

// Acquire blocks until the lock is held by the calling goroutine. If the
// caller already owns the lock the depth is incremented and Acquire returns
// immediately. A detected deadlock condition fails fast with
// ErrDeadlockSuspected before blocking.
func (l *ReentrantLock) Acquire() error {
	gid := goid.Get()

	if l.reenter(gid) {
		return nil
	}
	if err := l.prepareAcquire(gid); err != nil {
		return err
	}

	l.raw.Lock()
	l.finishAcquire(gid)
	return nil
}

// AcquireTimeout is Acquire with a deadline. It returns false when the
// deadline expires before the lock could be taken; expiry is expected control
// flow, not an error. A non-positive timeout blocks indefinitely.
func (l *ReentrantLock) AcquireTimeout(timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		err := l.Acquire()
		return err == nil, err
	}

	gid := goid.Get()

	if l.reenter(gid) {
		return true, nil
	}
	if err := l.prepareAcquire(gid); err != nil {
		return false, err
	}

	// The raw lock cannot wait with a deadline, so poll it with short
	// sleeps until the deadline passes.
	deadline := time.Now().Add(timeout)
	for !l.raw.TryLock() {
		if time.Now().After(deadline) {
			l.abandonAcquire(gid)
			return false, nil
		}
		time.Sleep(acquirePollInterval)
	}

	l.finishAcquire(gid)
	return true, nil
}

// Release undoes one acquisition. It fails with ErrNotOwner when the calling
// goroutine does not hold the lock. The raw lock is released only when the
// depth reaches zero.
func (l *ReentrantLock) Release() error {
	gid := goid.Get()

	l.state.Lock()
	if l.owner != gid {
		l.state.Unlock()
		return ErrNotOwner
	}
	l.depth--
	if l.depth > 0 {
		l.state.Unlock()
		return nil
	}
	l.owner = 0
	l.acquiredAt = time.Time{}
	l.state.Unlock()

	l.raw.Unlock()
	return nil
}

// Lock acquires the lock, blocking indefinitely. It panics if the deadlock
// heuristic fires, mirroring how misuse of the host mutex is fatal rather
// than recoverable. Together with Unlock it satisfies sync.Locker.
func (l *ReentrantLock) Lock() {
	if err := l.Acquire(); err != nil {
		panic(err)
	}
}

// Unlock releases the lock and panics when the caller is not the owner.
func (l *ReentrantLock) Unlock() {
	if err := l.Release(); err != nil {
		panic(err)
	}
}

// Locked reports whether the lock is currently held by any goroutine.
func (l *ReentrantLock) Locked() bool {
	l.state.Lock()
	defer l.state.Unlock()
	return l.depth > 0
}

// Owner returns the goroutine ID of the current holder, or 0 when unheld.
func (l *ReentrantLock) Owner() int64 {
	l.state.Lock()
	defer l.state.Unlock()
	return l.owner
}

// Waiting returns a snapshot of the goroutine IDs currently blocked trying to
// acquire the lock.
func (l *ReentrantLock) Waiting() []int64 {
	l.state.Lock()
	defer l.state.Unlock()
	ids := make([]int64, 0, len(l.waiting))
	for id := range l.waiting {
		ids = append(ids, id)
	}
	return ids
}

// SetStaleThreshold overrides the held-too-long threshold used by the
// deadlock heuristic. Intended for tests and diagnostics.
func (l *ReentrantLock) SetStaleThreshold(d time.Duration) {
	l.state.Lock()
	l.staleAfter = d
	l.state.Unlock()
}

// reenter increments the depth and returns true when gid already owns the
// lock. On the reentrant path there is no blocking and no deadlock check.
func (l *ReentrantLock) reenter(gid int64) bool {
	l.state.Lock()
	defer l.state.Unlock()
	if l.owner == gid {
		l.depth++
		return true
	}
	return false
}

// prepareAcquire registers gid in the waiting set and runs the deadlock
// heuristic. On a suspected deadlock the registration is rolled back.
func (l *ReentrantLock) prepareAcquire(gid int64) error {
	l.state.Lock()
	defer l.state.Unlock()
	if l.waiting == nil {
		l.waiting = make(map[int64]struct{})
	}
	l.waiting[gid] = struct{}{}
	if l.suspectDeadlock() {
		delete(l.waiting, gid)
		return ErrDeadlockSuspected
	}
	return nil
}

// finishAcquire records gid as the owner after the raw lock was taken.
func (l *ReentrantLock) finishAcquire(gid int64) {
	l.state.Lock()
	delete(l.waiting, gid)
	l.owner = gid
	l.depth = 1
	l.acquiredAt = time.Now()
	l.state.Unlock()
}

// abandonAcquire removes gid from the waiting set after a timed-out attempt.
func (l *ReentrantLock) abandonAcquire(gid int64) {
	l.state.Lock()
	delete(l.waiting, gid)
	l.state.Unlock()
}

// suspectDeadlock implements the heuristic. Callers hold l.state.
func (l *ReentrantLock) suspectDeadlock() bool {
	if l.owner != 0 {
		if _, ok := l.waiting[l.owner]; ok {
			return true
		}
	}
	stale := l.staleAfter
	if stale == 0 {
		stale = defaultStaleThreshold
	}
	if l.depth > 0 && time.Since(l.acquiredAt) > stale {
		return true
	}
	return false
}

// isOwnedBy reports whether gid currently owns the lock. Used by Condition to
// enforce its protocol.
func (l *ReentrantLock) isOwnedBy(gid int64) bool {
	l.state.Lock()
	defer l.state.Unlock()
	return l.depth > 0 && l.owner == gid
}
