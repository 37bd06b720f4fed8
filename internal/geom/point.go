// Package geom holds the 2D value types shared by shapes and the grid.
// Coordinates follow screen convention: +x right, +y down.
package geom

import (
	"math"

	"github.com/b-hayes/room-planner-sub000/internal/numeric"
)

// Point is a 2D position or vector. Clamp and Rotate mutate the receiver and
// return it so calls can be chained.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint builds a Point from loosely typed coordinates.
func NewPoint(x, y any) (*Point, error) {
	fx, err := numeric.Parse(x, "point x")
	if err != nil {
		return nil, err
	}
	fy, err := numeric.Parse(y, "point y")
	if err != nil {
		return nil, err
	}
	return &Point{X: fx, Y: fy}, nil
}

// Clamp limits each axis to its range. Bounds may be given in either order.
func (p *Point) Clamp(minX, maxX, minY, maxY float64) *Point {
	p.X = numeric.Clamp(p.X, minX, maxX)
	p.Y = numeric.Clamp(p.Y, minY, maxY)
	return p
}

// Rotate rotates the point about the origin. See RotateAround.
func (p *Point) Rotate(degrees float64) *Point {
	return p.RotateAround(degrees, Point{})
}

// RotateAround rotates the point about centre by applying the rotation
// matrix for -degrees, so Point{1, 0}.Rotate(90) lands on (0, -1).
func (p *Point) RotateAround(degrees float64, centre Point) *Point {
	sin, cos := math.Sincos(-degrees * math.Pi / 180)
	x := p.X - centre.X
	y := p.Y - centre.Y
	p.X = x*cos - y*sin + centre.X
	p.Y = x*sin + y*cos + centre.Y
	return p
}

// Angle returns the compass bearing of the vector from the origin: 0 is up
// (-y) and values increase clockwise, in [0, 360).
func (p Point) Angle() float64 {
	a := math.Atan2(p.Y, p.X)*180/math.Pi + 90
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Mul(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) Div(f float64) Point {
	return Point{X: p.X / f, Y: p.Y / f}
}

// Finite reports whether both coordinates are finite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
