package editor

import "github.com/matzehuels/sketchgraph/pkg/geometry"

// Zoom bounds for the view transform.
const (
	MinZoom = 0.1
	MaxZoom = 3.0
)

// View is the pan/zoom transform between canvas space and screen space:
// screen = canvas*Scale + Offset. The view is presentation state only; it
// is never part of the document and never creates a history entry.
type View struct {
	OffsetX float64
	OffsetY float64
	Scale   float64
}

// DefaultView returns the identity transform.
func DefaultView() View {
	return View{Scale: 1}
}

// ToCanvas converts a screen point to canvas coordinates.
func (v View) ToCanvas(sx, sy float64) geometry.Position {
	return geometry.Position{
		X: (sx - v.OffsetX) / v.Scale,
		Y: (sy - v.OffsetY) / v.Scale,
	}
}

// ToScreen converts a canvas position to screen coordinates.
func (v View) ToScreen(p geometry.Position) (float64, float64) {
	return p.X*v.Scale + v.OffsetX, p.Y*v.Scale + v.OffsetY
}

// zoomed returns a copy of v with the scale multiplied by factor and
// clamped to [MinZoom, MaxZoom].
func (v View) zoomed(factor float64) View {
	v.Scale *= factor
	if v.Scale < MinZoom {
		v.Scale = MinZoom
	}
	if v.Scale > MaxZoom {
		v.Scale = MaxZoom
	}
	return v
}
