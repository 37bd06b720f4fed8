// Package engine is the grid: the pannable, zoomable surface that owns the
// shapes, turns abstract pointer and wheel input into viewport and shape
// changes, and publishes render frames and change notifications.
package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
	"github.com/b-hayes/room-planner-sub000/internal/notify"
	"github.com/b-hayes/room-planner-sub000/internal/numeric"
	"github.com/b-hayes/room-planner-sub000/internal/shape"
	"github.com/b-hayes/room-planner-sub000/internal/typeid"
)

const (
	DefaultMinScale        = 0.25
	DefaultMaxScale        = 5
	DefaultZoomSensitivity = 0.001

	// TileSize is the background tile edge at scale 1, in pixels.
	TileSize = 100

	scalePrecision = 0.001
)

var (
	ErrInvalidID           = shape.ErrInvalidID
	ErrNotFound            = fmt.Errorf("shape not found: %w", ErrInvalidID)
	ErrInvalidArgumentType = numeric.ErrInvalidArgumentType
	ErrInvalidScaleLimits  = errors.New("invalid scale limits")
)

// RotateHandleFunc reports whether a pointer at local (render pixels from the
// shape's unrotated top-left) is over the shape's rotation handle.
type RotateHandleFunc func(shapeID string, local geom.Point, placement shape.Placement) bool

// DefaultRotateHandle treats a small circle centred below the middle of the
// top edge as the handle.
func DefaultRotateHandle(_ string, local geom.Point, placement shape.Placement) bool {
	const radius, inset = 8, 15
	dx := local.X - placement.Width/2
	dy := local.Y - inset
	return dx*dx+dy*dy <= radius*radius
}

// Grid is the viewport engine. It is not safe for concurrent use; hosts
// serialize every call, as the browser event loop does.
type Grid struct {
	scale    float64
	minScale float64
	maxScale float64

	scroll  geom.Point
	metrics Metrics
	world   geom.Point

	shapes   map[string]*shape.Shape
	order    []string
	selected string

	snap            float64
	zoomSensitivity float64
	edgeThreshold   float64
	rotateHandle    RotateHandleFunc
	debounce        time.Duration
	scheduler       notify.Scheduler

	session *session
	focus   *focusAnim

	inputs      map[InputKind]func(Input) error
	handlers    handlerRegistry
	scaleNotify *notify.Debouncer[ScaleChanged]
	shapeNotify *notify.Debouncer[ShapeChanged]
}

type Option func(*Grid)

// WithSnap sets the snap unit given to shapes created by the grid.
func WithSnap(snap float64) Option {
	return func(g *Grid) { g.snap = snap }
}

func WithScaleLimits(minScale, maxScale float64) Option {
	return func(g *Grid) {
		g.minScale = minScale
		g.maxScale = maxScale
	}
}

// WithDebounce sets the quiet period of debounced notifications.
func WithDebounce(d time.Duration) Option {
	return func(g *Grid) { g.debounce = d }
}

func WithScheduler(s notify.Scheduler) Option {
	return func(g *Grid) { g.scheduler = s }
}

// WithZoomSensitivity sets the scale change per wheel delta unit.
func WithZoomSensitivity(f float64) Option {
	return func(g *Grid) { g.zoomSensitivity = f }
}

// WithEdgeThreshold sets the resize grab distance in render pixels.
func WithEdgeThreshold(px float64) Option {
	return func(g *Grid) { g.edgeThreshold = px }
}

func WithRotateHandle(fn RotateHandleFunc) Option {
	return func(g *Grid) { g.rotateHandle = fn }
}

// WithWorldSize sets the world extent used for the scrollable size when the
// renderer does not report one.
func WithWorldSize(width, height float64) Option {
	return func(g *Grid) { g.world = geom.Point{X: width, Y: height} }
}

// New creates a grid at scale 1 with nothing scrolled.
func New(opts ...Option) (*Grid, error) {
	g := &Grid{
		scale:           1,
		minScale:        DefaultMinScale,
		maxScale:        DefaultMaxScale,
		shapes:          make(map[string]*shape.Shape),
		snap:            1,
		zoomSensitivity: DefaultZoomSensitivity,
		edgeThreshold:   shape.EdgeThreshold,
		rotateHandle:    DefaultRotateHandle,
		debounce:        notify.DefaultQuiet,
		scheduler:       notify.System,
	}
	for _, opt := range opts {
		opt(g)
	}

	if _, err := numeric.Finite(g.minScale, "min scale"); err != nil {
		return nil, err
	}
	if _, err := numeric.Finite(g.maxScale, "max scale"); err != nil {
		return nil, err
	}
	if g.minScale <= 0 || g.minScale > g.maxScale {
		return nil, fmt.Errorf("scale limits [%v, %v]: %w", g.minScale, g.maxScale, ErrInvalidScaleLimits)
	}
	g.scale = numeric.Clamp(g.scale, g.minScale, g.maxScale)
	if g.snap <= 0 {
		return nil, fmt.Errorf("snap %v must be positive: %w", g.snap, numeric.ErrInvalidNumber)
	}

	g.inputs = map[InputKind]func(Input) error{
		InputPointerDown: func(in Input) error { return g.PointerDown(in.X, in.Y, in.Buttons, in.AltKey, in.ShiftKey) },
		InputPointerMove: func(in Input) error { return g.PointerMove(in.X, in.Y, in.Buttons, in.AltKey) },
		InputPointerUp:   func(Input) error { g.PointerUp(); return nil },
		InputWheel:       func(in Input) error { return g.Wheel(in.DeltaX, in.DeltaY, in.AltKey, in.ShiftKey) },
	}
	g.scaleNotify = notify.NewDebouncer(g.debounce, g.scheduler, func(p ScaleChanged) {
		g.emit(EventScaleChanged, p)
	})
	g.shapeNotify = notify.NewDebouncer(g.debounce, g.scheduler, func(p ShapeChanged) {
		g.emit(EventShapeChanged, p)
	})
	return g, nil
}

func (g *Grid) Scale() float64 { return g.scale }

func (g *Grid) ScaleLimits() (float64, float64) { return g.minScale, g.maxScale }

// Snap returns the snap unit given to new shapes.
func (g *Grid) Snap() float64 { return g.snap }

// NewShape creates a shape with the grid's snap unit and adds it. An empty id
// gets a generated one.
func (g *Grid) NewShape(id string, p shape.Position) (*shape.Shape, error) {
	if id == "" {
		id = typeid.NewShapeID()
	}
	s, err := shape.New(id, shape.WithSnap(g.snap), shape.WithPosition(p))
	if err != nil {
		return nil, err
	}
	if err := g.AddShape(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddShape registers s and applies the grid's scale to it.
func (g *Grid) AddShape(s *shape.Shape) error {
	if s == nil {
		return fmt.Errorf("add shape: nil shape: %w", ErrInvalidArgumentType)
	}
	if s.Released() {
		return fmt.Errorf("add shape %q: shape was removed: %w", s.ID(), ErrInvalidArgumentType)
	}
	if _, ok := g.shapes[s.ID()]; ok {
		return fmt.Errorf("add shape: duplicate id %q: %w", s.ID(), ErrInvalidID)
	}
	if s.Selected() {
		s.SetSelected(false)
	}
	s.SetScale(g.scale)
	g.shapes[s.ID()] = s
	g.order = append(g.order, s.ID())
	return nil
}

// RemoveShape deregisters a shape, ending any selection or drag on it.
func (g *Grid) RemoveShape(id string) error {
	s, ok := g.shapes[id]
	if !ok {
		return fmt.Errorf("remove shape %q: %w", id, ErrNotFound)
	}
	if g.selected == id {
		if err := g.Select(""); err != nil {
			return err
		}
	}
	if g.session != nil && g.session.shapeID == id {
		g.session.shapeID = ""
	}
	if g.focus != nil && g.focus.shapeID == id {
		g.focus = nil
	}
	delete(g.shapes, id)
	g.order = slices.DeleteFunc(g.order, func(v string) bool { return v == id })
	s.Release()
	return nil
}

// Shape looks up a registered shape.
func (g *Grid) Shape(id string) (*shape.Shape, bool) {
	s, ok := g.shapes[id]
	return s, ok
}

// Shapes returns the registered shapes bottom to top.
func (g *Grid) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.shapes[id])
	}
	return out
}

// Selected returns the selected shape id, or "".
func (g *Grid) Selected() string { return g.selected }

// Select makes id the only selected shape. "" clears the selection.
func (g *Grid) Select(id string) error {
	if id != "" {
		if _, ok := g.shapes[id]; !ok {
			return fmt.Errorf("select %q: %w", id, ErrNotFound)
		}
	}
	if id == g.selected {
		return nil
	}
	prev := g.selected
	if s, ok := g.shapes[prev]; ok {
		s.SetSelected(false)
	}
	g.selected = id
	if id != "" {
		g.shapes[id].SetSelected(true)
	}
	g.emit(EventSelectionChanged, SelectionChanged{Previous: prev, Current: id})
	return nil
}

// Close cancels pending debounced notifications.
func (g *Grid) Close() {
	g.scaleNotify.Cancel()
	g.shapeNotify.Cancel()
}
