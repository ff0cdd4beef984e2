// Package debounce delays a call until input has settled.
package debounce

import (
	"sync"
	"time"
)

// Timer runs at most one pending func. Each Trigger replaces whatever was
// pending before it.
type Timer struct {
	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func New() *Timer {
	return &Timer{}
}

// Trigger schedules fn after delay, cancelling any earlier pending call.
// A delay of zero or less runs fn synchronously.
func (t *Timer) Trigger(delay time.Duration, fn func()) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	if delay <= 0 {
		t.mu.Unlock()
		fn()
		return
	}
	gen := t.gen
	t.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		if t.gen != gen || t.stopped {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
	t.mu.Unlock()
}

// Cancel drops the pending call, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	t.cancelLocked()
	t.mu.Unlock()
}

// Pending reports whether a call is waiting to fire.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Stop cancels the pending call and ignores all later triggers.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.cancelLocked()
	t.stopped = true
	t.mu.Unlock()
}

func (t *Timer) cancelLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
