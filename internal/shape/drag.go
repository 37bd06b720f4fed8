package shape

import "github.com/b-hayes/room-planner-sub000/internal/geom"

// Drag is the state of one pointer gesture on a shape. Pointers and Center
// are in grid pixels.
type Drag struct {
	Initial        Position
	InitialPointer geom.Point
	CurrentPointer geom.Point
	Mode           Mode
	Center         geom.Point
	Scale          float64
}

// ResolveDrag computes the geometry a gesture asks for. The result is not
// clamped or snapped; SetPosition does that.
func ResolveDrag(d Drag) Position {
	next := d.Initial
	rotation := d.Initial.Rotation

	raw := d.CurrentPointer.Sub(d.InitialPointer).Div(d.Scale)

	// Undo the shape's on-screen rotation so resize deltas run along its own axes.
	cur, init := d.CurrentPointer, d.InitialPointer
	cur.RotateAround(rotation, d.Center)
	init.RotateAround(rotation, d.Center)
	local := cur.Sub(init).Div(d.Scale)

	switch {
	case d.Mode.Resizing():
		left, right, top, bottom := d.Mode.Edges()
		if left {
			next.Width = d.Initial.Width - local.X*2
		}
		if right {
			next.Width = d.Initial.Width + local.X*2
		}
		if top {
			next.Height = d.Initial.Height - local.Y*2
		}
		if bottom {
			next.Height = d.Initial.Height + local.Y*2
		}
	case d.Mode == ModeRotating:
		next.Rotation = d.Initial.Rotation +
			(d.CurrentPointer.Sub(d.Center).Angle() - d.InitialPointer.Sub(d.Center).Angle())
	default:
		next.X = d.Initial.X + raw.X
		next.Y = d.Initial.Y + raw.Y
	}
	return next
}

// DragTo resolves a gesture that started at initialPointer against the
// snapshot taken by Capture and applies it.
func (s *Shape) DragTo(initialPointer, currentPointer geom.Point) error {
	return s.SetPosition(ResolveDrag(Drag{
		Initial:        s.snapshot,
		InitialPointer: initialPointer,
		CurrentPointer: currentPointer,
		Mode:           s.mode,
		Center:         s.placement.Center(),
		Scale:          s.scale,
	}))
}
