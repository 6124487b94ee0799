package syncx

import (
	"sync"
	"time"
)

// waiter is a single-use gate representing one blocked caller inside a
// Condition. The gate is closed (locked) at creation and opened exactly once,
// either by a notifier or by a one-shot timer when a timed wait expires.
// Whichever side loses the race finds the gate already open and its attempt
// is a no-op. The outcome is tagged so the waking goroutine can tell a
// notification from a timeout.
type waiter struct {
	gate sync.Mutex // closed at creation; opened once to wake the waiter

	guard    sync.Mutex // serializes the notify/timer race below
	opened   bool
	byNotify bool
	timer    *time.Timer
}

func newWaiter() *waiter {
	w := &waiter{}
	w.gate.Lock()
	return w
}

// wait blocks until the gate opens and reports whether it was opened by a
// notification. A positive timeout arms a one-shot timer that opens the gate
// when it fires.
func (w *waiter) wait(timeout time.Duration) bool {
	if timeout > 0 {
		w.guard.Lock()
		w.timer = time.AfterFunc(timeout, w.expire)
		w.guard.Unlock()
	}

	w.gate.Lock() // blocks until notify or expire unlocks the gate

	w.guard.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	got := w.byNotify
	w.guard.Unlock()
	return got
}

// notify opens the gate on behalf of a notifier. It reports whether this call
// won the race; false means the gate was already open.
func (w *waiter) notify() bool {
	return w.open(true)
}

// expire opens the gate on behalf of the timeout timer.
func (w *waiter) expire() {
	w.open(false)
}

func (w *waiter) open(byNotify bool) bool {
	w.guard.Lock()
	defer w.guard.Unlock()
	if w.opened {
		return false
	}
	w.opened = true
	w.byNotify = byNotify
	w.gate.Unlock()
	return true
}
