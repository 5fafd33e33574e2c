package services

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single deferred action.
// At most one timer is pending at a time: each Schedule cancels and replaces
// the previous one, so actions are never reordered relative to each other.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

// NewDebouncer creates a debouncer with a fixed quiet-period delay
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule (re)starts the debounce window with fn as the pending action.
// fn runs once the full delay elapses without another Schedule call.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		pending := d.fn
		d.fn = nil
		d.timer = nil
		d.mu.Unlock()
		if pending != nil {
			pending()
		}
	})
}

// Cancel discards the pending action, reporting whether one was pending
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := d.fn != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	return pending
}

// FlushNow cancels the timer and runs the pending action synchronously,
// reporting whether one ran. Used on teardown so no edit is lost.
func (d *Debouncer) FlushNow() bool {
	d.mu.Lock()
	pending := d.fn
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	d.mu.Unlock()

	if pending == nil {
		return false
	}
	pending()
	return true
}
