package feature

import "github.com/dshills/geoedit/internal/geo"

// Marker is a point feature.
type Marker struct {
	base
	pos *geo.Position
}

// NewMarker creates a marker at pos. The marker keeps the pointer.
func NewMarker(pos *geo.Position) *Marker {
	if pos == nil {
		pos = &geo.Position{}
	}
	return &Marker{base: newBase(), pos: pos}
}

// Kind returns KindMarker.
func (m *Marker) Kind() Kind { return KindMarker }

// LatLng returns the marker's position.
func (m *Marker) LatLng() *geo.Position { return m.pos }

// SetLatLng moves the marker, updating its position in place.
func (m *Marker) SetLatLng(p geo.Position) { m.pos.Set(p) }
