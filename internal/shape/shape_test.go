package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
	"github.com/b-hayes/room-planner-sub000/internal/numeric"
)

const tol = 1e-9

func newShape(t *testing.T, opts ...Option) *Shape {
	t.Helper()
	s, err := New("shape_a", opts...)
	require.NoError(t, err)
	return s
}

func TestNewDefaults(t *testing.T) {
	s := newShape(t)
	assert.Equal(t, "shape_a", s.ID())
	assert.Equal(t, DefaultPosition(), s.Position())
	assert.Equal(t, 1.0, s.Scale())
	assert.Equal(t, ModeNone, s.Mode())
	assert.Equal(t, Placement{X: 0, Y: 0, Width: 300, Height: 300}, s.Placement())
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("a", WithSnap(0))
	assert.ErrorIs(t, err, numeric.ErrInvalidNumber)

	_, err = New("a", WithPosition(Position{X: math.NaN()}))
	assert.ErrorIs(t, err, numeric.ErrInvalidNumber)
}

func TestSetPositionClampsToHalfExtents(t *testing.T) {
	s := newShape(t)
	require.NoError(t, s.SetPosition(Position{X: 5, Y: 5, Width: 20, Height: 20, Rotation: 0}))
	assert.Equal(t, Position{X: 10, Y: 10, Width: 20, Height: 20, Rotation: 0}, s.Position())
}

func TestSetPositionRotatedClamp(t *testing.T) {
	s := newShape(t)
	require.NoError(t, s.SetPosition(Position{X: 0, Y: 0, Width: 100, Height: 20, Rotation: 90}))
	p := s.Position()
	// Turned a quarter, the tall side now spans x.
	assert.Equal(t, 10.0, p.X)
	assert.Equal(t, 50.0, p.Y)
	assert.Equal(t, 90.0, p.Rotation)
}

func TestSetPositionMinimumSize(t *testing.T) {
	s := newShape(t)
	require.NoError(t, s.SetPosition(Position{X: 100, Y: 100, Width: 2, Height: -40}))
	assert.Equal(t, 10.0, s.Position().Width)
	assert.Equal(t, 10.0, s.Position().Height)
}

func TestSetPositionRotationWrap(t *testing.T) {
	s := newShape(t)
	cases := []struct{ in, want float64 }{
		{-90, 270},
		{360, 0},
		{450, 90},
		{719, 359},
		{-360, 0},
	}
	for _, c := range cases {
		require.NoError(t, s.SetPosition(Position{X: 500, Y: 500, Width: 50, Height: 50, Rotation: c.in}))
		assert.Equal(t, c.want, s.Position().Rotation, "rotation %v", c.in)
	}
}

// Only one wraparound step is applied, so rotations far outside the range
// come out of SetPosition still out of range.
func TestSetPositionRotationSingleWrapBoundary(t *testing.T) {
	s := newShape(t)
	require.NoError(t, s.SetPosition(Position{X: 500, Y: 500, Width: 50, Height: 50, Rotation: 800}))
	assert.Equal(t, 440.0, s.Position().Rotation)

	require.NoError(t, s.SetPosition(Position{X: 500, Y: 500, Width: 50, Height: 50, Rotation: -400}))
	assert.Equal(t, -40.0, s.Position().Rotation)
}

func TestSetPositionSnapTruncates(t *testing.T) {
	s := newShape(t, WithSnap(10))
	require.NoError(t, s.SetPosition(Position{X: 207, Y: 199.9, Width: 58, Height: 31, Rotation: 44}))
	assert.Equal(t, Position{X: 200, Y: 190, Width: 50, Height: 30, Rotation: 40}, s.Position())
}

func TestSetPositionInvariants(t *testing.T) {
	for _, snap := range []float64{1, 5, 10} {
		s := newShape(t, WithSnap(snap))
		for _, x := range []float64{-50, 0, 13, 377.7} {
			for _, w := range []float64{-3, 9, 10, 121.5} {
				for _, r := range []float64{-359, -12.5, 0, 45, 359.9, 400} {
					require.NoError(t, s.SetPosition(Position{X: x, Y: x + 3, Width: w, Height: w * 2, Rotation: r}))
					p := s.Position()
					for _, v := range []float64{p.X, p.Y, p.Width, p.Height, p.Rotation} {
						assert.InDelta(t, 0, math.Mod(v, snap), tol, "snap %v field %v", snap, v)
					}
					assert.GreaterOrEqual(t, p.Width, float64(MinSize))
					assert.GreaterOrEqual(t, p.Height, float64(MinSize))
					assert.GreaterOrEqual(t, p.Rotation, 0.0)
					assert.Less(t, p.Rotation, 360.0)
				}
			}
		}
	}
}

func TestSetPositionRejectsNonFinite(t *testing.T) {
	s := newShape(t)
	before := s.Position()
	err := s.SetPosition(Position{X: 1, Y: 1, Width: math.Inf(1), Height: 10})
	assert.ErrorIs(t, err, numeric.ErrInvalidNumber)
	assert.Equal(t, before, s.Position())
}

func TestParsePatchDefaults(t *testing.T) {
	p, err := ParsePatch(map[string]any{"x": "400", "rotation": 30})
	require.NoError(t, err)
	assert.Equal(t, Position{X: 400, Y: 150, Width: 300, Height: 300, Rotation: 30}, p)

	_, err = ParsePatch(map[string]any{"width": "wide"})
	assert.ErrorIs(t, err, numeric.ErrInvalidNumber)

	_, err = ParsePatch(map[string]any{"height": true})
	assert.ErrorIs(t, err, numeric.ErrInvalidArgumentType)
}

func TestSetScaleRecomputesPlacement(t *testing.T) {
	s := newShape(t, WithPosition(Position{X: 200, Y: 100, Width: 100, Height: 50, Rotation: 30}))
	s.SetScale(2)
	assert.Equal(t, Placement{X: 300, Y: 150, Width: 200, Height: 100, Rotation: 30}, s.Placement())
	assert.Equal(t, geom.Point{X: 400, Y: 200}, s.Placement().Center())
}

func TestPlacementContainsRotated(t *testing.T) {
	p := Placement{X: 0, Y: 40, Width: 100, Height: 20, Rotation: 90}
	// Centre (50, 50); turned upright the rect spans x 40..60, y 0..100.
	assert.True(t, p.Contains(geom.Point{X: 50, Y: 5}))
	assert.False(t, p.Contains(geom.Point{X: 5, Y: 50}))

	local := p.Local(geom.Point{X: 60, Y: 0})
	assert.InDelta(t, 0, local.X, tol)
	assert.InDelta(t, 0, local.Y, tol)

	b := p.Bounds()
	assert.InDelta(t, 40, b.X, tol)
	assert.InDelta(t, 0, b.Y, tol)
	assert.InDelta(t, 20, b.Width, tol)
	assert.InDelta(t, 100, b.Height, tol)
}

func TestSelectionDropsMode(t *testing.T) {
	s := newShape(t)
	s.SetSelected(true)
	s.SetMode(ModeRotating)
	s.SetSelected(false)
	assert.False(t, s.Selected())
	assert.Equal(t, ModeNone, s.Mode())
}

func TestRelease(t *testing.T) {
	s := newShape(t)
	s.SetSelected(true)
	s.Capture()
	s.Release()
	assert.True(t, s.Released())
	assert.False(t, s.Selected())
	assert.Equal(t, Position{}, s.Snapshot())
}
