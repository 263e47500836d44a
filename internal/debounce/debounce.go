// Package debounce provides a trailing-edge debounced task.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer a Debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc schedules with time.AfterFunc.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs fn once after delay has elapsed since the last Trigger.
// Bursts of triggers coalesce into a single call. Safe to use concurrently.
type Debouncer struct {
	delay time.Duration
	fn    func()
	after AfterFunc

	mu struct {
		sync.Mutex
		timer   Timer
		gen     uint64
		stopped bool
	}
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithAfterFunc replaces the scheduler, typically with a manual clock in tests.
func WithAfterFunc(after AfterFunc) Option {
	return func(d *Debouncer) { d.after = after }
}

// New creates a debouncer for fn.
func New(delay time.Duration, fn func(), opts ...Option) *Debouncer {
	d := &Debouncer{delay: delay, fn: fn, after: RealAfterFunc}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mu.stopped {
		return
	}
	d.clearTimer()
	d.mu.gen++
	gen := d.mu.gen
	d.mu.timer = d.after(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A stale timer that lost the race with Trigger, Cancel or Stop.
	if d.mu.stopped || gen != d.mu.gen || d.mu.timer == nil {
		d.mu.Unlock()
		return
	}
	d.mu.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mu.timer != nil
}

// Cancel drops a pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearTimer()
	d.mu.gen++
}

// Stop cancels any pending call and ignores every later Trigger.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearTimer()
	d.mu.gen++
	d.mu.stopped = true
}

func (d *Debouncer) clearTimer() {
	if d.mu.timer != nil {
		d.mu.timer.Stop()
		d.mu.timer = nil
	}
}
