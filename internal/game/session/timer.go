package session

import (
	"sync"
	"time"
)

// Deadline runs a callback once after a duration unless stopped first.
// It is safe for concurrent use.
type Deadline struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	fired   bool
}

// NewDeadline creates and starts a deadline that calls onExpire after d.
// onExpire runs in its own goroutine.
//
// Precondition: d > 0; onExpire must not be nil.
// Postcondition: onExpire runs exactly once unless Stop is called first.
func NewDeadline(d time.Duration, onExpire func()) *Deadline {
	dl := &Deadline{}
	dl.arm(d, onExpire)
	return dl
}

// arm holds the lock while creating the timer so the callback cannot observe
// a stale dl.timer.
func (dl *Deadline) arm(d time.Duration, onExpire func()) {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		dl.mu.Lock()
		if dl.stopped || dl.timer != t {
			dl.mu.Unlock()
			return
		}
		dl.fired = true
		dl.mu.Unlock()
		onExpire()
	})
	dl.timer = t
}

// Reset cancels the pending callback and starts a new one.
//
// Precondition: d > 0; onExpire must not be nil.
// Postcondition: onExpire runs after d from now unless Stop is called first.
func (dl *Deadline) Reset(d time.Duration, onExpire func()) {
	dl.mu.Lock()
	dl.stopped = false
	dl.fired = false
	dl.timer.Stop()
	dl.mu.Unlock()
	dl.arm(d, onExpire)
}

// Stop prevents the callback from running. Safe to call multiple times.
//
// Postcondition: Returns true if the deadline was stopped before it expired.
func (dl *Deadline) Stop() bool {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.stopped = true
	dl.timer.Stop()
	return !dl.fired
}

// Expired reports whether the callback has run.
func (dl *Deadline) Expired() bool {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return dl.fired
}
