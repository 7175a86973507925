package feature

import "github.com/dshills/geoedit/internal/geo"

// Polyline is an open path feature.
type Polyline struct {
	base
	ring *geo.Ring
}

// NewPolyline creates a polyline through coords.
func NewPolyline(coords ...geo.Position) *Polyline {
	return &Polyline{base: newBase(), ring: geo.NewRing(coords...)}
}

// Kind returns KindPolyline.
func (p *Polyline) Kind() Kind { return KindPolyline }

// Ring returns the polyline's positions.
func (p *Polyline) Ring() *geo.Ring { return p.ring }

// Rings returns the polyline's single ring.
func (p *Polyline) Rings() []*geo.Ring { return []*geo.Ring{p.ring} }

// Polygon is an area feature with optional holes. The outer ring is
// implicitly closed.
type Polygon struct {
	base
	outer *geo.Ring
	holes []*geo.Ring
}

// NewPolygon creates a polygon whose outer boundary passes through coords.
func NewPolygon(coords ...geo.Position) *Polygon {
	return &Polygon{base: newBase(), outer: geo.NewRing(coords...)}
}

// Kind returns KindPolygon.
func (p *Polygon) Kind() Kind { return KindPolygon }

// Outer returns the outer boundary.
func (p *Polygon) Outer() *geo.Ring { return p.outer }

// Holes returns a copy of the hole list.
func (p *Polygon) Holes() []*geo.Ring {
	holes := make([]*geo.Ring, len(p.holes))
	copy(holes, p.holes)
	return holes
}

// Rings returns the outer ring followed by the holes.
func (p *Polygon) Rings() []*geo.Ring {
	rings := make([]*geo.Ring, 0, 1+len(p.holes))
	rings = append(rings, p.outer)
	return append(rings, p.holes...)
}

// AddHole appends a hole ring.
func (p *Polygon) AddHole(r *geo.Ring) {
	if r == nil {
		return
	}
	p.holes = append(p.holes, r)
}

// RemoveHole removes a hole ring, reporting whether it was present.
func (p *Polygon) RemoveHole(r *geo.Ring) bool {
	for i, h := range p.holes {
		if h == r {
			p.holes = append(p.holes[:i], p.holes[i+1:]...)
			return true
		}
	}
	return false
}

// IsHole reports whether r is one of the polygon's holes.
func (p *Polygon) IsHole(r *geo.Ring) bool {
	for _, h := range p.holes {
		if h == r {
			return true
		}
	}
	return false
}

// Ringed is implemented by features made of rings.
type Ringed interface {
	Layer
	Rings() []*geo.Ring
}
