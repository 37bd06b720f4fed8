// Package shape owns the geometry of a single rectangular shape: its world
// position, the clamping and snapping rules applied on every change, and the
// scaled placement handed to the renderer.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
	"github.com/b-hayes/room-planner-sub000/internal/numeric"
)

const (
	DefaultX        = 150
	DefaultY        = 150
	DefaultWidth    = 300
	DefaultHeight   = 300
	DefaultRotation = 0

	// MinSize is the smallest width or height a shape may have, in world units.
	MinSize = 10
)

var ErrInvalidID = errors.New("invalid shape id")

// Position is a shape's world-space geometry. X and Y locate the centre;
// rotation is in degrees.
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// DefaultPosition returns the geometry used for absent fields.
func DefaultPosition() Position {
	return Position{X: DefaultX, Y: DefaultY, Width: DefaultWidth, Height: DefaultHeight, Rotation: DefaultRotation}
}

// ParsePatch coerces loosely typed fields into a Position. Absent keys take
// the fixed defaults, never a previous value.
func ParsePatch(fields map[string]any) (Position, error) {
	p := DefaultPosition()
	targets := []struct {
		key string
		dst *float64
	}{
		{"x", &p.X},
		{"y", &p.Y},
		{"width", &p.Width},
		{"height", &p.Height},
		{"rotation", &p.Rotation},
	}
	for _, t := range targets {
		raw, ok := fields[t.key]
		if !ok {
			continue
		}
		v, err := numeric.Parse(raw, t.key)
		if err != nil {
			return Position{}, err
		}
		*t.dst = v
	}
	return p, nil
}

func (p Position) validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"x", p.X}, {"y", p.Y}, {"width", p.Width}, {"height", p.Height}, {"rotation", p.Rotation}} {
		if _, err := numeric.Finite(f.v, f.name); err != nil {
			return err
		}
	}
	return nil
}

// Placement is the scaled, top-left-origin rectangle the renderer places.
// Rotation is not scaled.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// Center returns the placement's visual centre in grid pixels.
func (p Placement) Center() geom.Point {
	return geom.Point{X: p.X + p.Width/2, Y: p.Y + p.Height/2}
}

// Matrix maps the unrotated local rect (0,0)-(Width,Height) onto the grid.
func (p Placement) Matrix() geom.Matrix2D {
	c := p.Center()
	return geom.Placement(c.X, c.Y, p.Rotation, p.Width/2, p.Height/2)
}

// Bounds returns the axis-aligned box covering the rotated placement.
func (p Placement) Bounds() geom.Rect {
	return p.Matrix().TransformRect(geom.Rect{Width: p.Width, Height: p.Height})
}

// Local converts a grid-pixel point into the placement's local axes, relative
// to its unrotated top-left corner.
func (p Placement) Local(grid geom.Point) geom.Point {
	return p.Matrix().Invert().Apply(grid)
}

// Contains reports whether a grid-pixel point lies on the rotated rect.
func (p Placement) Contains(grid geom.Point) bool {
	l := p.Local(grid)
	return l.X >= 0 && l.X <= p.Width && l.Y >= 0 && l.Y <= p.Height
}

// RotatedHalfExtents returns half the width and height of the axis-aligned
// box that covers a width x height rect turned by rotation degrees.
func RotatedHalfExtents(width, height, rotation float64) (float64, float64) {
	sin, cos := math.Sincos(rotation * math.Pi / 180)
	hw := (math.Abs(width*cos) + math.Abs(height*sin)) / 2
	hh := (math.Abs(width*sin) + math.Abs(height*cos)) / 2
	return hw, hh
}

// Shape is one rectangle on the grid. Its scale is written only by the grid
// that owns it.
type Shape struct {
	id        string
	pos       Position
	snap      float64
	scale     float64
	selected  bool
	mode      Mode
	snapshot  Position
	placement Placement
	released  bool
}

type Option func(*Shape) error

// WithPosition sets the initial geometry instead of the centred default.
func WithPosition(p Position) Option {
	return func(s *Shape) error {
		s.pos = p
		return nil
	}
}

// WithSnap sets the grid increment all geometry fields are truncated to.
func WithSnap(snap float64) Option {
	return func(s *Shape) error {
		v, err := numeric.Finite(snap, "snap")
		if err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("snap %v must be positive: %w", v, numeric.ErrInvalidNumber)
		}
		s.snap = v
		return nil
	}
}

// New creates a shape and publishes its initial geometry.
func New(id string, opts ...Option) (*Shape, error) {
	if id == "" {
		return nil, fmt.Errorf("new shape: empty id: %w", ErrInvalidID)
	}
	s := &Shape{
		id:    id,
		pos:   DefaultPosition(),
		snap:  1,
		scale: 1,
		mode:  ModeNone,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("new shape %q: %w", id, err)
		}
	}
	if err := s.SetPosition(s.pos); err != nil {
		return nil, fmt.Errorf("new shape %q: %w", id, err)
	}
	return s, nil
}

func (s *Shape) ID() string { return s.id }

func (s *Shape) Position() Position { return s.pos }

func (s *Shape) Snap() float64 { return s.snap }

func (s *Shape) Scale() float64 { return s.scale }

func (s *Shape) Placement() Placement { return s.placement }

// SetPosition validates, clamps and snaps p, then publishes it and
// recomputes the placement.
func (s *Shape) SetPosition(p Position) error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("set position of %q: %w", s.id, err)
	}

	// Keep the rotated bounding box on the positive side of the world origin.
	hw, hh := RotatedHalfExtents(p.Width, p.Height, p.Rotation)
	p.X = math.Max(p.X, hw)
	p.Y = math.Max(p.Y, hh)

	p.Width = math.Max(p.Width, MinSize)
	p.Height = math.Max(p.Height, MinSize)

	// A single wraparound step; rotations outside [-360, 720) stay out of range.
	if p.Rotation < 0 {
		p.Rotation += 360
	} else if p.Rotation >= 360 {
		p.Rotation -= 360
	}

	p.X = s.truncate(p.X)
	p.Y = s.truncate(p.Y)
	p.Width = s.truncate(p.Width)
	p.Height = s.truncate(p.Height)
	p.Rotation = s.truncate(p.Rotation)

	s.pos = p
	s.recompute()
	return nil
}

func (s *Shape) truncate(v float64) float64 {
	return v - math.Mod(v, s.snap)
}

// SetScale applies the owning grid's scale and recomputes the placement.
// scale must be positive and finite.
func (s *Shape) SetScale(scale float64) {
	s.scale = scale
	s.recompute()
}

func (s *Shape) recompute() {
	w := s.pos.Width * s.scale
	h := s.pos.Height * s.scale
	s.placement = Placement{
		X:        s.pos.X*s.scale - w/2,
		Y:        s.pos.Y*s.scale - h/2,
		Width:    w,
		Height:   h,
		Rotation: s.pos.Rotation,
	}
}

func (s *Shape) Selected() bool { return s.selected }

// SetSelected toggles selection. Deselecting drops any interaction mode.
func (s *Shape) SetSelected(selected bool) {
	s.selected = selected
	if !selected {
		s.mode = ModeNone
	}
}

func (s *Shape) Mode() Mode { return s.mode }

func (s *Shape) SetMode(m Mode) { s.mode = m }

// Capture snapshots the current position as the start of a drag.
func (s *Shape) Capture() Position {
	s.snapshot = s.pos
	return s.snapshot
}

// Snapshot returns the position captured by the last Capture.
func (s *Shape) Snapshot() Position { return s.snapshot }

// Release detaches the shape from interaction. A released shape cannot be
// added to a grid again.
func (s *Shape) Release() {
	s.selected = false
	s.mode = ModeNone
	s.snapshot = Position{}
	s.released = true
}

func (s *Shape) Released() bool { return s.released }
