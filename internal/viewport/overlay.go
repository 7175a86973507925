package viewport

import "github.com/dshills/geoedit/internal/geo"

// ShapeKind identifies how an overlay is drawn.
type ShapeKind int

const (
	// ShapeHandle is a square handle centred on a position.
	ShapeHandle ShapeKind = iota
	// ShapeSegment is a dashed line between two positions.
	ShapeSegment
)

// Shape describes an overlay for drawing.
type Shape struct {
	Kind ShapeKind

	// Class is the style class of the overlay (e.g. "editable-vertex").
	Class string

	// At is the handle centre.
	At geo.Position

	// Size is the handle edge length in screen units.
	Size float64

	// Opacity is between 0 (invisible) and 1.
	Opacity float64

	// ZIndex orders overlays; higher draws later.
	ZIndex int

	// From and To are the segment endpoints.
	From, To geo.Position
}

// Overlay is anything drawn above the features.
type Overlay interface {
	// Shape returns the current drawing description. ok is false when there
	// is nothing to draw.
	Shape() (s Shape, ok bool)
}
