package engine

import (
	"fmt"
	"log/slog"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
	"github.com/b-hayes/room-planner-sub000/internal/numeric"
)

// Metrics is what the renderer reports about the scroll container. A zero
// scroll size falls back to the world size at the current scale.
type Metrics struct {
	ClientWidth  float64 `json:"clientWidth"`
	ClientHeight float64 `json:"clientHeight"`
	ScrollWidth  float64 `json:"scrollWidth"`
	ScrollHeight float64 `json:"scrollHeight"`
}

func (m Metrics) validate() error {
	for _, v := range []float64{m.ClientWidth, m.ClientHeight, m.ScrollWidth, m.ScrollHeight} {
		if _, err := numeric.Finite(v, "viewport metric"); err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("viewport metric %v is negative: %w", v, numeric.ErrInvalidNumber)
		}
	}
	return nil
}

// SetMetrics records the renderer's container size and re-clamps the scroll
// position against it.
func (g *Grid) SetMetrics(m Metrics) error {
	if err := m.validate(); err != nil {
		return err
	}
	g.metrics = m
	g.setScroll(g.scroll)
	return nil
}

func (g *Grid) Metrics() Metrics { return g.metrics }

// Scroll returns the pan position in grid pixels.
func (g *Grid) Scroll() geom.Point { return g.scroll }

// scrollExtent returns the largest scroll offsets the container allows.
func (g *Grid) scrollExtent() (float64, float64) {
	sw, sh := g.metrics.ScrollWidth, g.metrics.ScrollHeight
	if sw == 0 {
		sw = g.world.X * g.scale
	}
	if sh == 0 {
		sh = g.world.Y * g.scale
	}
	return max(0, sw-g.metrics.ClientWidth), max(0, sh-g.metrics.ClientHeight)
}

func (g *Grid) setScroll(p geom.Point) {
	ex, ey := g.scrollExtent()
	g.scroll = *p.Clamp(0, ex, 0, ey)
}

// Pan shifts the scroll position by shift, bounded by the scrollable area.
func (g *Grid) Pan(shift geom.Point) error {
	return g.PanFrom(g.scroll, shift)
}

// PanFrom scrolls to origin+shift, bounded by the scrollable area.
func (g *Grid) PanFrom(origin, shift geom.Point) error {
	if !origin.Finite() || !shift.Finite() {
		return fmt.Errorf("pan from %v by %v: %w", origin, shift, numeric.ErrInvalidNumber)
	}
	g.setScroll(origin.Add(shift))
	return nil
}

// SetScroll adopts a scroll position chosen by the renderer.
func (g *Grid) SetScroll(x, y float64) error {
	return g.PanFrom(geom.Point{X: x, Y: y}, geom.Point{})
}

// Zoom changes the scale by delta keeping the grid point under the viewport
// centre fixed. The new scale is rounded to three decimals and clamped to the
// limits. Asking to go further past a limit the grid already sits on emits
// scale-limit-reached instead.
func (g *Grid) Zoom(delta float64) error {
	if _, err := numeric.Finite(delta, "zoom delta"); err != nil {
		return err
	}
	requested := g.scale + delta
	if (g.scale <= g.minScale && requested < g.minScale) || (g.scale >= g.maxScale && requested > g.maxScale) {
		slog.Debug("scale limit reached", "scale", g.scale, "requested", requested)
		g.emit(EventScaleLimitReached, ScaleLimitReached{Scale: g.scale, MinScale: g.minScale, MaxScale: g.maxScale})
		return nil
	}
	rounded, err := numeric.Round(requested, scalePrecision)
	if err != nil {
		return err
	}
	next := numeric.Clamp(rounded, g.minScale, g.maxScale)
	if next == g.scale {
		return nil
	}
	g.cancelFocus()

	centre := geom.Point{X: g.metrics.ClientWidth / 2, Y: g.metrics.ClientHeight / 2}
	before := centre.Add(g.scroll)
	virtual := before.Div(g.scale)

	old := g.scale
	g.scale = next
	for _, s := range g.shapes {
		s.SetScale(next)
	}

	// Not re-clamped: the renderer resizes its content on the next frame and
	// the scroll position must land on the focal point.
	g.scroll = g.scroll.Add(virtual.Mul(next).Sub(before))
	g.scaleNotify.Trigger(ScaleChanged{Old: old, New: next})
	return nil
}
