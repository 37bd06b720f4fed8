package engine

import (
	"slices"
	"sync"

	"github.com/b-hayes/room-planner-sub000/internal/shape"
)

// EventKind names a grid notification.
type EventKind string

const (
	EventScaleChanged      EventKind = "scale-changed"
	EventScaleLimitReached EventKind = "scale-limit-reached"
	EventSelectionChanged  EventKind = "selection-changed"
	EventShapeChanged      EventKind = "shape-changed"
	EventModeChanged       EventKind = "mode-changed"

	// EventAll subscribes to every kind.
	EventAll EventKind = "*"
)

type ScaleChanged struct {
	Old float64 `json:"oldScale"`
	New float64 `json:"newScale"`
}

type ScaleLimitReached struct {
	Scale    float64 `json:"scale"`
	MinScale float64 `json:"minScale"`
	MaxScale float64 `json:"maxScale"`
}

type SelectionChanged struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

type ShapeChanged struct {
	ID       string         `json:"id"`
	Position shape.Position `json:"position"`
}

type ModeChanged struct {
	ID   string     `json:"id"`
	Mode shape.Mode `json:"mode"`
}

// Notification is a delivered event. Payload is one of the event structs
// above, matching Kind.
type Notification struct {
	Kind    EventKind `json:"kind"`
	Payload any       `json:"payload"`
}

// Handlers may be invoked from a timer goroutine for debounced kinds.
type handlerEntry struct {
	id uint32
	fn func(Notification)
}

type handlerRegistry struct {
	mu     sync.RWMutex
	nextID uint32
	byKind map[EventKind][]handlerEntry
}

func (r *handlerRegistry) add(kind EventKind, fn func(Notification)) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byKind == nil {
		r.byKind = make(map[EventKind][]handlerEntry)
	}
	r.nextID++
	r.byKind[kind] = append(r.byKind[kind], handlerEntry{id: r.nextID, fn: fn})
	return r.nextID
}

func (r *handlerRegistry) remove(kind EventKind, id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind[kind] = slices.DeleteFunc(r.byKind[kind], func(e handlerEntry) bool { return e.id == id })
}

func (r *handlerRegistry) snapshot(kind EventKind) []handlerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]handlerEntry, 0, len(r.byKind[kind])+len(r.byKind[EventAll]))
	out = append(out, r.byKind[kind]...)
	return append(out, r.byKind[EventAll]...)
}

// CallbackHandle unsubscribes a handler registered with On.
type CallbackHandle struct {
	reg  *handlerRegistry
	kind EventKind
	id   uint32
}

// Remove unsubscribes the handler. Calling it more than once is harmless.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.remove(h.kind, h.id)
}

// On subscribes fn to notifications of kind.
func (g *Grid) On(kind EventKind, fn func(Notification)) CallbackHandle {
	id := g.handlers.add(kind, fn)
	return CallbackHandle{reg: &g.handlers, kind: kind, id: id}
}

func (g *Grid) emit(kind EventKind, payload any) {
	n := Notification{Kind: kind, Payload: payload}
	for _, h := range g.handlers.snapshot(kind) {
		h.fn(n)
	}
}
