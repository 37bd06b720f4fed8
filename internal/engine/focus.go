package engine

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
)

type focusAnim struct {
	shapeID      string
	tweenX       *gween.Tween
	tweenY       *gween.Tween
	doneX, doneY bool
}

// Focus scrolls so the shape's centre lands in the middle of the viewport,
// animated over duration seconds as Advance is called. A non-positive duration
// jumps at once. A nil easeFn means ease.InOutQuad.
func (g *Grid) Focus(id string, duration float32, easeFn ease.TweenFunc) error {
	s, ok := g.shapes[id]
	if !ok {
		return fmt.Errorf("focus %q: %w", id, ErrNotFound)
	}
	half := geom.Point{X: g.metrics.ClientWidth / 2, Y: g.metrics.ClientHeight / 2}
	target := s.Placement().Center().Sub(half)

	if duration <= 0 {
		g.focus = nil
		g.setScroll(target)
		return nil
	}
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	g.focus = &focusAnim{
		shapeID: id,
		tweenX:  gween.New(float32(g.scroll.X), float32(target.X), duration, easeFn),
		tweenY:  gween.New(float32(g.scroll.Y), float32(target.Y), duration, easeFn),
	}
	return nil
}

// Focusing reports whether a focus animation is running.
func (g *Grid) Focusing() bool { return g.focus != nil }

func (g *Grid) cancelFocus() { g.focus = nil }

// Advance moves running animations forward by dt seconds.
func (g *Grid) Advance(dt float32) {
	f := g.focus
	if f == nil {
		return
	}
	next := g.scroll
	if !f.doneX {
		val, done := f.tweenX.Update(dt)
		next.X = float64(val)
		f.doneX = done
	}
	if !f.doneY {
		val, done := f.tweenY.Update(dt)
		next.Y = float64(val)
		f.doneY = done
	}
	g.setScroll(next)
	if f.doneX && f.doneY {
		g.focus = nil
	}
}

// Tick advances animations by dt seconds and returns the frame as JSON.
// Hosts call it once per animation frame.
func (g *Grid) Tick(dt float32) string {
	g.Advance(dt)
	return g.Render()
}
