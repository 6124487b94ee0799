package syncx

import (
	"time"

	"github.com/petermattis/goid"
)

// Condition is a monitor-style condition variable built on a ReentrantLock.
// The lock is shared with callers: every protocol method (Wait, WaitFor,
// Notify, NotifyAll) requires the calling goroutine to hold L and fails with
// ErrNotOwner otherwise.
//
// The host runtime offers no timed wait, so each waiter blocks on its own
// single-use gate; timed waits race a one-shot timer against the notifier for
// the right to open that gate. Waiters are queued and woken in FIFO order.
type Condition struct {
	// L is the backing lock. Hold it while inspecting or mutating the
	// state the condition stands for.
	L *ReentrantLock

	waiters []*waiter // guarded by L
}

// NewCondition returns a condition backed by lock. A nil lock allocates a
// fresh one; pass the same lock to multiple conditions to coordinate several
// predicates over one piece of state.
func NewCondition(lock *ReentrantLock) *Condition {
	if lock == nil {
		lock = NewReentrantLock()
	}
	return &Condition{L: lock}
}

// Wait releases the backing lock, blocks until notified or until the timeout
// expires, and reacquires the lock before returning regardless of outcome.
// It reports true when woken by a notification and false on timeout. A
// non-positive timeout blocks indefinitely.
//
// On timeout the waiter removes itself from the queue so a later
// notification is not wasted on it.
func (c *Condition) Wait(timeout time.Duration) (bool, error) {
	if !c.owned() {
		return false, ErrNotOwner
	}

	w := newWaiter()
	c.waiters = append(c.waiters, w)

	if err := c.L.Release(); err != nil {
		c.remove(w)
		return false, err
	}

	got := w.wait(timeout)

	if err := c.L.Acquire(); err != nil {
		return got, err
	}
	if !got {
		c.remove(w)
	}
	return got, nil
}

// WaitFor repeatedly waits until predicate returns true or the deadline
// passes, and returns the predicate's final value. The predicate is always
// evaluated with the backing lock held. A non-positive timeout blocks until
// the predicate holds.
func (c *Condition) WaitFor(predicate func() bool, timeout time.Duration) (bool, error) {
	if !c.owned() {
		return false, ErrNotOwner
	}
	if predicate() {
		return true, nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		wait := time.Duration(0)
		if timeout > 0 {
			wait = time.Until(deadline)
			if wait <= 0 {
				return false, nil
			}
		}
		notified, err := c.Wait(wait)
		if err != nil {
			return false, err
		}
		if notified && predicate() {
			return true, nil
		}
	}
}

// Notify wakes up to n of the earliest-queued waiters, in the order their
// Wait calls arrived. Notifying more waiters than are queued is a no-op for
// the excess. A waiter that already timed out but has not yet removed itself
// still consumes one notification.
func (c *Condition) Notify(n int) error {
	if !c.owned() {
		return ErrNotOwner
	}
	if n < 0 {
		n = 0
	}
	if n > len(c.waiters) {
		n = len(c.waiters)
	}

	woken := c.waiters[:n]
	for _, w := range woken {
		w.notify()
	}
	c.waiters = c.waiters[n:]
	return nil
}

// NotifyAll wakes every queued waiter.
func (c *Condition) NotifyAll() error {
	return c.Notify(len(c.waiters))
}

func (c *Condition) owned() bool {
	return c.L.isOwnedBy(goid.Get())
}

// remove drops w from the waiter queue. Callers hold L.
func (c *Condition) remove(target *waiter) {
	for i, w := range c.waiters {
		if w == target {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}
