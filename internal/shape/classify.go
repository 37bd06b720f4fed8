package shape

import (
	"strings"

	"github.com/b-hayes/room-planner-sub000/internal/geom"
)

// EdgeThreshold is the distance in render pixels from an edge that still
// counts as grabbing it.
const EdgeThreshold = 15

// Mode is the interaction a pointer gesture on a shape performs.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeRotating Mode = "rotating"

	ModeResizeTopLeft     Mode = "resizing:top-left"
	ModeResizeBottomRight Mode = "resizing:bottom-right"
	ModeResizeBottomLeft  Mode = "resizing:bottom-left"
	ModeResizeTopRight    Mode = "resizing:top-right"
	ModeResizeLeft        Mode = "resizing:left"
	ModeResizeRight       Mode = "resizing:right"
	ModeResizeTop         Mode = "resizing:top"
	ModeResizeBottom      Mode = "resizing:bottom"
)

const resizePrefix = "resizing:"

// Resizing reports whether m drags one or two edges.
func (m Mode) Resizing() bool {
	return strings.HasPrefix(string(m), resizePrefix)
}

// Edges returns the edge names m resizes.
func (m Mode) Edges() (left, right, top, bottom bool) {
	if !m.Resizing() {
		return
	}
	edges := strings.TrimPrefix(string(m), resizePrefix)
	return strings.Contains(edges, "left"),
		strings.Contains(edges, "right"),
		strings.Contains(edges, "top"),
		strings.Contains(edges, "bottom")
}

// Probe is what Classify needs to know about the pointer and the shape under it.
type Probe struct {
	// Offset of the pointer from the shape's unrotated top-left, in render pixels.
	Offset geom.Point
	// Width and Height of the rendered shape.
	Width, Height float64

	Selected         bool
	OverRotateHandle bool
	// ButtonsDown freezes the classification at Previous.
	ButtonsDown bool
	Previous    Mode

	// Threshold overrides EdgeThreshold when positive.
	Threshold float64
}

// Classify decides the interaction mode for a pointer position.
func Classify(p Probe) Mode {
	if p.ButtonsDown {
		if p.Previous == "" {
			return ModeNone
		}
		return p.Previous
	}

	x, y := p.Offset.X, p.Offset.Y
	if !p.Selected || x < 0 || y < 0 || x > p.Width || y > p.Height {
		return ModeNone
	}
	if p.OverRotateHandle {
		return ModeRotating
	}

	t := p.Threshold
	if t <= 0 {
		t = EdgeThreshold
	}
	left := x <= t
	right := x >= p.Width-t
	top := y <= t
	bottom := y >= p.Height-t

	switch {
	case top && left:
		return ModeResizeTopLeft
	case bottom && right:
		return ModeResizeBottomRight
	case bottom && left:
		return ModeResizeBottomLeft
	case top && right:
		return ModeResizeTopRight
	case left:
		return ModeResizeLeft
	case right:
		return ModeResizeRight
	case top:
		return ModeResizeTop
	case bottom:
		return ModeResizeBottom
	}
	return ModeNone
}
