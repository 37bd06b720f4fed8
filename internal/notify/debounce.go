// Package notify collapses bursts of change events into a single trailing
// emission.
package notify

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period used when none is configured.
const DefaultQuiet = 100 * time.Millisecond

// Timer is the cancellable handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// System schedules with the runtime's timers.
var System Scheduler = systemScheduler{}

// Debouncer holds a single pending payload. Each Trigger replaces the payload
// and restarts the quiet period, so only the last value of a burst is emitted.
type Debouncer[T any] struct {
	mu      sync.Mutex
	quiet   time.Duration
	sched   Scheduler
	emit    func(T)
	timer   Timer
	pending T
	armed   bool
	gen     uint64
}

// NewDebouncer creates a debouncer calling emit after quiet. A nil scheduler
// means System.
func NewDebouncer[T any](quiet time.Duration, sched Scheduler, emit func(T)) *Debouncer[T] {
	if sched == nil {
		sched = System
	}
	return &Debouncer[T]{quiet: quiet, sched: sched, emit: emit}
}

// Trigger schedules v with the configured quiet period.
func (d *Debouncer[T]) Trigger(v T) {
	d.TriggerAfter(v, d.quiet)
}

// TriggerAfter schedules v after quiet, cancelling whatever was pending. A
// non-positive quiet emits synchronously.
func (d *Debouncer[T]) TriggerAfter(v T, quiet time.Duration) {
	d.mu.Lock()
	d.stopLocked()
	if quiet <= 0 {
		d.mu.Unlock()
		d.emit(v)
		return
	}
	d.pending = v
	d.armed = true
	gen := d.gen
	d.timer = d.sched.AfterFunc(quiet, func() { d.fire(gen) })
	d.mu.Unlock()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if !d.armed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.clearLocked()
	d.mu.Unlock()
	d.emit(v)
}

// Flush emits the pending payload now. It reports whether one was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return false
	}
	v := d.pending
	d.stopLocked()
	d.mu.Unlock()
	d.emit(v)
	return true
}

// Cancel drops the pending payload. It reports whether one was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.armed
	d.stopLocked()
	return was
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.clearLocked()
}

func (d *Debouncer[T]) clearLocked() {
	var zero T
	d.timer = nil
	d.pending = zero
	d.armed = false
	d.gen++
}
