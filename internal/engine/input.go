package engine

import (
	"fmt"
	"log/slog"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
	"github.com/b-hayes/room-planner-sub000/internal/numeric"
	"github.com/b-hayes/room-planner-sub000/internal/shape"
)

type InputKind string

const (
	InputPointerDown InputKind = "pointer-down"
	InputPointerMove InputKind = "pointer-move"
	InputPointerUp   InputKind = "pointer-up"
	InputWheel       InputKind = "wheel"
)

// Buttons is the pressed-button mask of a pointer event.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Input is one abstract host event. Pointer coordinates are viewport pixels.
type Input struct {
	Kind     InputKind `json:"kind"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	DeltaX   float64   `json:"deltaX"`
	DeltaY   float64   `json:"deltaY"`
	Buttons  Buttons   `json:"buttons"`
	AltKey   bool      `json:"altKey"`
	ShiftKey bool      `json:"shiftKey"`
}

type State string

const (
	StateIdle      State = "idle"
	StatePanning   State = "panning"
	StateShapeDrag State = "shape-drag"
)

// session lives from pointer-down to pointer-up.
type session struct {
	shapeID string
	// pointer at pointer-down, in grid pixels
	pointer geom.Point

	panning    bool
	panOrigin  geom.Point
	panPointer geom.Point
}

func (s *session) beginPan(scroll, viewport geom.Point) {
	s.panning = true
	s.panOrigin = scroll
	s.panPointer = viewport
}

// State reports the interaction state.
func (g *Grid) State() State {
	switch {
	case g.session == nil:
		return StateIdle
	case g.session.panning:
		return StatePanning
	case g.session.shapeID != "":
		return StateShapeDrag
	}
	return StateIdle
}

// Dispatch routes a host event to its handler.
func (g *Grid) Dispatch(in Input) error {
	handle, ok := g.inputs[in.Kind]
	if !ok {
		return fmt.Errorf("input kind %q: %w", in.Kind, ErrInvalidArgumentType)
	}
	return handle(in)
}

func pointerAt(x, y float64) (geom.Point, error) {
	p := geom.Point{X: x, Y: y}
	if !p.Finite() {
		return p, fmt.Errorf("pointer (%v, %v): %w", x, y, numeric.ErrInvalidNumber)
	}
	return p, nil
}

func panHeld(buttons Buttons, alt bool) bool {
	return alt || buttons&ButtonMiddle != 0
}

// PointerDown starts a session. A hit shape is selected and its drag mode is
// fixed from where it was grabbed; a miss clears the selection.
func (g *Grid) PointerDown(x, y float64, buttons Buttons, alt, shift bool) error {
	vp, err := pointerAt(x, y)
	if err != nil {
		return err
	}
	g.cancelFocus()
	gp := vp.Add(g.scroll)
	sess := &session{pointer: gp}

	if s := g.shapeAt(gp); s != nil {
		mode := g.classify(s, gp, false)
		if err := g.Select(s.ID()); err != nil {
			return err
		}
		g.setMode(s, mode)
		s.Capture()
		sess.shapeID = s.ID()
	} else if err := g.Select(""); err != nil {
		return err
	}

	if panHeld(buttons, alt) {
		sess.beginPan(g.scroll, vp)
	}
	g.session = sess
	slog.Debug("pointer session started", "shape", sess.shapeID, "state", g.State(), "shift", shift)
	return nil
}

// PointerMove pans while a pan modifier is held, otherwise drags the captured
// shape. Without a session it updates the hover mode of the selected shape.
func (g *Grid) PointerMove(x, y float64, buttons Buttons, alt bool) error {
	vp, err := pointerAt(x, y)
	if err != nil {
		return err
	}
	sess := g.session
	if sess == nil {
		g.hover(vp.Add(g.scroll), buttons != 0)
		return nil
	}

	if panHeld(buttons, alt) {
		if !sess.panning {
			sess.beginPan(g.scroll, vp)
		}
		g.cancelFocus()
		return g.PanFrom(sess.panOrigin, sess.panPointer.Sub(vp))
	}
	sess.panning = false

	if sess.shapeID == "" {
		return nil
	}
	s, ok := g.shapes[sess.shapeID]
	if !ok {
		return nil
	}
	if err := s.DragTo(sess.pointer, vp.Add(g.scroll)); err != nil {
		return err
	}
	g.shapeNotify.Trigger(ShapeChanged{ID: s.ID(), Position: s.Position()})
	return nil
}

// PointerUp ends the session. The selection persists.
func (g *Grid) PointerUp() {
	if g.session == nil {
		return
	}
	slog.Debug("pointer session ended", "shape", g.session.shapeID)
	g.session = nil
}

// Wheel zooms, or pans when alt is held. Shift swaps the pan axes.
func (g *Grid) Wheel(dx, dy float64, alt, shift bool) error {
	if _, err := numeric.Finite(dx, "wheel deltaX"); err != nil {
		return err
	}
	if _, err := numeric.Finite(dy, "wheel deltaY"); err != nil {
		return err
	}
	if alt {
		if shift {
			dx, dy = dy, dx
		}
		g.cancelFocus()
		return g.Pan(geom.Point{X: dx, Y: dy})
	}
	return g.Zoom(-dy * g.zoomSensitivity)
}

func (g *Grid) hover(gp geom.Point, buttonsDown bool) {
	s, ok := g.shapes[g.selected]
	if !ok {
		return
	}
	g.setMode(s, g.classify(s, gp, buttonsDown))
}

func (g *Grid) setMode(s *shape.Shape, m shape.Mode) {
	if s.Mode() == m {
		return
	}
	s.SetMode(m)
	g.emit(EventModeChanged, ModeChanged{ID: s.ID(), Mode: m})
}

func (g *Grid) classify(s *shape.Shape, gp geom.Point, buttonsDown bool) shape.Mode {
	pl := s.Placement()
	local := pl.Local(gp)
	return shape.Classify(shape.Probe{
		Offset:           local,
		Width:            pl.Width,
		Height:           pl.Height,
		Selected:         s.Selected(),
		OverRotateHandle: g.rotateHandle != nil && g.rotateHandle(s.ID(), local, pl),
		ButtonsDown:      buttonsDown,
		Previous:         s.Mode(),
		Threshold:        g.edgeThreshold,
	})
}

// shapeAt returns the shape under a grid-pixel point. The selected shape
// wins, then the topmost.
func (g *Grid) shapeAt(gp geom.Point) *shape.Shape {
	if s, ok := g.shapes[g.selected]; ok && s.Placement().Contains(gp) {
		return s
	}
	for i := len(g.order) - 1; i >= 0; i-- {
		if s := g.shapes[g.order[i]]; s.Placement().Contains(gp) {
			return s
		}
	}
	return nil
}
