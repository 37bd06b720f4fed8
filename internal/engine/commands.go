package engine

import (
	"encoding/json"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
	"github.com/b-hayes/room-planner-sub000/internal/shape"
)

// ViewportFrame is the viewport half of a render frame. Background offsets
// move the tiled background with the scroll position.
type ViewportFrame struct {
	Scale       float64 `json:"scale"`
	MinScale    float64 `json:"minScale"`
	MaxScale    float64 `json:"maxScale"`
	ScrollX     float64 `json:"scrollX"`
	ScrollY     float64 `json:"scrollY"`
	TileSize    float64 `json:"tileSize"`
	BackgroundX float64 `json:"backgroundX"`
	BackgroundY float64 `json:"backgroundY"`
	State       State   `json:"state"`
	Selected    string  `json:"selected,omitempty"`
}

// ShapeFrame is one shape as the renderer places it, in grid pixels.
type ShapeFrame struct {
	ID string `json:"id"`
	shape.Placement
	Selected bool       `json:"selected"`
	Mode     shape.Mode `json:"mode"`
	// Transform is the [a, b, c, d, e, f] matrix mapping the unrotated local
	// rect onto the grid.
	Transform []float64 `json:"transform"`
}

// Frame is everything a renderer needs to draw the grid. Shapes are in
// painter's order.
type Frame struct {
	Viewport ViewportFrame `json:"viewport"`
	Shapes   []ShapeFrame  `json:"shapes"`
}

// Frame captures the current render state.
func (g *Grid) Frame() Frame {
	f := Frame{
		Viewport: ViewportFrame{
			Scale:       g.scale,
			MinScale:    g.minScale,
			MaxScale:    g.maxScale,
			ScrollX:     g.scroll.X,
			ScrollY:     g.scroll.Y,
			TileSize:    TileSize * g.scale,
			BackgroundX: -g.scroll.X,
			BackgroundY: -g.scroll.Y,
			State:       g.State(),
			Selected:    g.selected,
		},
		Shapes: make([]ShapeFrame, 0, len(g.order)),
	}
	for _, s := range g.Shapes() {
		f.Shapes = append(f.Shapes, shapeFrame(s))
	}
	return f
}

func shapeFrame(s *shape.Shape) ShapeFrame {
	pl := s.Placement()
	return ShapeFrame{
		ID:        s.ID(),
		Placement: pl,
		Selected:  s.Selected(),
		Mode:      s.Mode(),
		Transform: pl.Matrix().ToSlice(),
	}
}

// Render returns the current frame as JSON.
func (g *Grid) Render() string {
	data, err := json.Marshal(g.Frame())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// HitTest returns the id of the shape under a viewport point, or "".
func (g *Grid) HitTest(x, y float64) string {
	p := geom.Point{X: x, Y: y}
	if !p.Finite() {
		return ""
	}
	if s := g.shapeAt(p.Add(g.scroll)); s != nil {
		return s.ID()
	}
	return ""
}

// ShapeToJSON serializes a shape's world position and render placement.
func ShapeToJSON(s *shape.Shape) string {
	data, _ := json.Marshal(map[string]any{
		"id":        s.ID(),
		"position":  s.Position(),
		"placement": s.Placement(),
		"selected":  s.Selected(),
		"mode":      s.Mode(),
	})
	return string(data)
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r geom.Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
