package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	got []int
}

func (r *recorder) emit(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, v)
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.got...)
}

func TestDebouncerEmitsLastOfBurst(t *testing.T) {
	clock := &Manual{}
	rec := &recorder{}
	d := NewDebouncer(DefaultQuiet, clock, rec.emit)

	d.Trigger(1)
	clock.Advance(60 * time.Millisecond)
	d.Trigger(2)
	clock.Advance(60 * time.Millisecond)
	d.Trigger(3)
	assert.Empty(t, rec.values())
	assert.True(t, d.Pending())

	clock.Advance(99 * time.Millisecond)
	assert.Empty(t, rec.values())

	clock.Advance(time.Millisecond)
	assert.Equal(t, []int{3}, rec.values())
	assert.False(t, d.Pending())
	assert.Equal(t, 0, clock.Waiting())
}

func TestDebouncerSeparateBursts(t *testing.T) {
	clock := &Manual{}
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, clock, rec.emit)

	d.Trigger(1)
	clock.Advance(50 * time.Millisecond)
	d.Trigger(2)
	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, rec.values())
}

func TestDebouncerZeroQuietIsSynchronous(t *testing.T) {
	clock := &Manual{}
	rec := &recorder{}
	d := NewDebouncer(DefaultQuiet, clock, rec.emit)

	d.Trigger(1)
	d.TriggerAfter(2, 0)
	assert.Equal(t, []int{2}, rec.values())

	// The pending 1 was cancelled by the synchronous emission.
	clock.Advance(time.Second)
	assert.Equal(t, []int{2}, rec.values())

	z := NewDebouncer(0, clock, rec.emit)
	z.Trigger(7)
	assert.Equal(t, []int{2, 7}, rec.values())
}

func TestDebouncerFlushAndCancel(t *testing.T) {
	clock := &Manual{}
	rec := &recorder{}
	d := NewDebouncer(DefaultQuiet, clock, rec.emit)

	assert.False(t, d.Flush())
	d.Trigger(4)
	assert.True(t, d.Flush())
	assert.Equal(t, []int{4}, rec.values())
	clock.Advance(time.Second)
	assert.Equal(t, []int{4}, rec.values())

	d.Trigger(5)
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())
	clock.Advance(time.Second)
	assert.Equal(t, []int{4}, rec.values())
}

func TestDebouncerSystemScheduler(t *testing.T) {
	done := make(chan int, 1)
	d := NewDebouncer(5*time.Millisecond, nil, func(v int) { done <- v })
	d.Trigger(1)
	d.Trigger(9)
	select {
	case v := <-done:
		require.Equal(t, 9, v)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value never emitted")
	}
}
