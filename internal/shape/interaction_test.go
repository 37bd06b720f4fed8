package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
)

func probe(x, y float64) Probe {
	return Probe{Offset: geom.Point{X: x, Y: y}, Width: 200, Height: 100, Selected: true}
}

func TestClassifyZones(t *testing.T) {
	cases := []struct {
		x, y float64
		want Mode
	}{
		{5, 5, ModeResizeTopLeft},
		{195, 95, ModeResizeBottomRight},
		{5, 95, ModeResizeBottomLeft},
		{195, 5, ModeResizeTopRight},
		{10, 50, ModeResizeLeft},
		{190, 50, ModeResizeRight},
		{100, 15, ModeResizeTop},
		{100, 85, ModeResizeBottom},
		{100, 50, ModeNone},
		{16, 16, ModeNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(probe(c.x, c.y)), "offset (%v, %v)", c.x, c.y)
	}
}

func TestClassifyPriority(t *testing.T) {
	p := probe(5, 5)
	p.OverRotateHandle = true
	assert.Equal(t, ModeRotating, Classify(p))

	p.Selected = false
	assert.Equal(t, ModeNone, Classify(p))

	out := probe(-1, 50)
	assert.Equal(t, ModeNone, Classify(out))
	out = probe(50, 101)
	assert.Equal(t, ModeNone, Classify(out))
}

func TestClassifyFrozenWhileButtonsDown(t *testing.T) {
	p := probe(100, 50)
	p.ButtonsDown = true
	p.Previous = ModeResizeLeft
	assert.Equal(t, ModeResizeLeft, Classify(p))

	p.Previous = ""
	assert.Equal(t, ModeNone, Classify(p))
}

func TestClassifyCustomThreshold(t *testing.T) {
	p := probe(25, 50)
	assert.Equal(t, ModeNone, Classify(p))
	p.Threshold = 30
	assert.Equal(t, ModeResizeLeft, Classify(p))
}

func TestModeEdges(t *testing.T) {
	l, r, tp, b := ModeResizeTopLeft.Edges()
	assert.Equal(t, []bool{true, false, true, false}, []bool{l, r, tp, b})
	l, r, tp, b = ModeRotating.Edges()
	assert.Equal(t, []bool{false, false, false, false}, []bool{l, r, tp, b})
	assert.True(t, ModeResizeBottom.Resizing())
	assert.False(t, ModeNone.Resizing())
}

func TestResolveDragMove(t *testing.T) {
	initial := Position{X: 300, Y: 300, Width: 100, Height: 100}
	got := ResolveDrag(Drag{
		Initial:        initial,
		InitialPointer: geom.Point{X: 100, Y: 100},
		CurrentPointer: geom.Point{X: 130, Y: 115},
		Mode:           ModeNone,
		Center:         geom.Point{X: 300, Y: 300},
		Scale:          1,
	})
	assert.Equal(t, 330.0, got.X)
	assert.Equal(t, 315.0, got.Y)
	assert.Equal(t, 100.0, got.Width)
}

func TestResolveDragMoveIgnoresRotationAndScales(t *testing.T) {
	got := ResolveDrag(Drag{
		Initial:        Position{X: 300, Y: 300, Width: 100, Height: 100, Rotation: 45},
		InitialPointer: geom.Point{X: 100, Y: 100},
		CurrentPointer: geom.Point{X: 140, Y: 100},
		Center:         geom.Point{X: 600, Y: 600},
		Scale:          2,
	})
	assert.InDelta(t, 320, got.X, tol)
	assert.InDelta(t, 300, got.Y, tol)
}

func TestResolveDragResize(t *testing.T) {
	base := Drag{
		Initial:        Position{X: 300, Y: 300, Width: 100, Height: 80},
		InitialPointer: geom.Point{X: 350, Y: 340},
		CurrentPointer: geom.Point{X: 360, Y: 345},
		Center:         geom.Point{X: 300, Y: 300},
		Scale:          1,
	}

	base.Mode = ModeResizeRight
	got := ResolveDrag(base)
	assert.InDelta(t, 120, got.Width, tol)
	assert.InDelta(t, 80, got.Height, tol)

	base.Mode = ModeResizeLeft
	got = ResolveDrag(base)
	assert.InDelta(t, 80, got.Width, tol)

	base.Mode = ModeResizeBottomRight
	got = ResolveDrag(base)
	assert.InDelta(t, 120, got.Width, tol)
	assert.InDelta(t, 90, got.Height, tol)
	assert.Equal(t, 300.0, got.X)

	base.Mode = ModeResizeTop
	base.Scale = 2
	got = ResolveDrag(base)
	assert.InDelta(t, 75, got.Height, tol)
}

func TestResolveDragResizeRotated(t *testing.T) {
	// Turned a quarter clockwise, the shape's right edge faces down the screen.
	got := ResolveDrag(Drag{
		Initial:        Position{X: 300, Y: 300, Width: 100, Height: 40, Rotation: 90},
		InitialPointer: geom.Point{X: 300, Y: 350},
		CurrentPointer: geom.Point{X: 300, Y: 360},
		Mode:           ModeResizeRight,
		Center:         geom.Point{X: 300, Y: 300},
		Scale:          1,
	})
	assert.InDelta(t, 120, got.Width, tol)
	assert.InDelta(t, 40, got.Height, tol)
}

func TestResolveDragRotate(t *testing.T) {
	got := ResolveDrag(Drag{
		Initial:        Position{X: 300, Y: 300, Width: 100, Height: 100, Rotation: 10},
		InitialPointer: geom.Point{X: 300, Y: 200},
		CurrentPointer: geom.Point{X: 400, Y: 300},
		Mode:           ModeRotating,
		Center:         geom.Point{X: 300, Y: 300},
		Scale:          1,
	})
	assert.InDelta(t, 100, got.Rotation, tol)
}

func TestDragToAppliesClampAndSnap(t *testing.T) {
	s := newShape(t, WithSnap(5), WithPosition(Position{X: 100, Y: 100, Width: 100, Height: 100}))
	s.Capture()
	require.NoError(t, s.DragTo(geom.Point{X: 100, Y: 100}, geom.Point{X: 7, Y: 133}))
	p := s.Position()
	assert.Equal(t, 50.0, p.X)
	assert.Equal(t, 130.0, p.Y)

	s.Capture()
	s.SetMode(ModeRotating)
	require.NoError(t, s.DragTo(geom.Point{X: 50, Y: 0}, geom.Point{X: 0, Y: 130}))
	assert.Equal(t, 270.0, s.Position().Rotation)
}
