package notify

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by Advance instead of wall time. Tests and
// frame-stepped hosts use it to fire timers deterministically.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m       *Manual
	at      time.Duration
	seq     int
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

// AfterFunc registers f to run once Advance passes d from now.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward and runs every timer that came due, in
// deadline order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due, rest []*manualTimer
	for _, t := range m.timers {
		switch {
		case t.stopped:
		case t.at <= m.now:
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	m.timers = rest
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		m.mu.Lock()
		stopped := t.stopped
		t.stopped = true
		m.mu.Unlock()
		if !stopped {
			t.f()
		}
	}
}

// Waiting returns the number of live timers.
func (m *Manual) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
