// Package geometry provides the pure coordinate helpers used by every
// interactive placement on the canvas: grid snapping and clamping a shape's
// bounding box to the canvas rectangle.
//
// All functions are stateless and never return an error. Positions are in
// canvas space, not screen pixels; the view transform (pan offset, zoom) is
// applied by callers before these helpers run.
package geometry

import "math"

// GridSize is the grid unit every interactive placement snaps to.
const GridSize = 20

// Canvas bounds. A shape's axis-aligned bounding box is kept inside this
// rectangle by Clamp.
const (
	CanvasMinX = 50
	CanvasMinY = 50
	CanvasMaxX = 2950
	CanvasMaxY = 2950
)

// Position is a point in canvas-space coordinates.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Dimensions is the width and height of a shape. Both are positive for any
// valid shape.
type Dimensions struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Snap rounds v to the nearest multiple of [GridSize].
// Snap is idempotent: Snap(Snap(v)) == Snap(v).
func Snap(v float64) float64 {
	return math.Round(v/GridSize) * GridSize
}

// SnapPosition applies [Snap] to both axes of p.
func SnapPosition(p Position) Position {
	return Position{X: Snap(p.X), Y: Snap(p.Y)}
}

// Clamp constrains p so that a shape of the given dimensions placed at p
// stays within the canvas rectangle. Each axis is clamped independently.
//
// Clamp never fails: if the shape is larger than the canvas, the origin is
// pinned to the minimum bound and the shape overflows on the far edge. That
// overflow is accepted behavior.
func Clamp(p Position, d Dimensions) Position {
	return Position{
		X: clampAxis(p.X, d.Width, CanvasMinX, CanvasMaxX),
		Y: clampAxis(p.Y, d.Height, CanvasMinY, CanvasMaxY),
	}
}

func clampAxis(v, size, min, max float64) float64 {
	if v < min {
		return min
	}
	if v+size > max {
		// max-size may be below min for oversized shapes; min wins.
		return math.Max(min, max-size)
	}
	return v
}

// IsWithinBounds reports whether a shape of the given dimensions placed at p
// lies entirely within the canvas rectangle. No snapping is applied.
func IsWithinBounds(p Position, d Dimensions) bool {
	return p.X >= CanvasMinX && p.Y >= CanvasMinY &&
		p.X+d.Width <= CanvasMaxX && p.Y+d.Height <= CanvasMaxY
}

// SnapAndClamp snaps p to the grid and clamps the result to the canvas.
// This is the composed operation applied to every interactive placement,
// drag, and resize.
func SnapAndClamp(p Position, d Dimensions) Position {
	return Clamp(SnapPosition(p), d)
}
