package viewport

import "github.com/dshills/geoedit/internal/geo"

// Linear is a plate carrée projection: longitude grows to the right,
// latitude grows upwards.
type Linear struct {
	// Origin is the position drawn at Offset.
	Origin geo.Position

	// Offset is the screen point of Origin.
	Offset geo.Point

	// ScaleX and ScaleY are screen units per degree.
	ScaleX, ScaleY float64
}

// NewLinear creates a projection with equal scales that centers origin on
// a screen of the given size.
func NewLinear(origin geo.Position, scale float64, width, height float64) Linear {
	if scale == 0 {
		scale = 1
	}
	return Linear{
		Origin: origin,
		Offset: geo.Point{X: width / 2, Y: height / 2},
		ScaleX: scale,
		ScaleY: scale,
	}
}

// Project converts a position to a screen point.
func (l Linear) Project(p geo.Position) geo.Point {
	return geo.Point{
		X: (p.Lng-l.Origin.Lng)*l.ScaleX + l.Offset.X,
		Y: (l.Origin.Lat-p.Lat)*l.ScaleY + l.Offset.Y,
	}
}

// Unproject converts a screen point to a position.
func (l Linear) Unproject(pt geo.Point) geo.Position {
	return geo.Position{
		Lat: l.Origin.Lat - (pt.Y-l.Offset.Y)/l.ScaleY,
		Lng: l.Origin.Lng + (pt.X-l.Offset.X)/l.ScaleX,
	}
}
