package hittest

import (
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/dshills/geoedit/internal/geo"
)

// Tester answers the hit-testing questions of the editing core.
type Tester interface {
	// SegmentDistance returns the distance from p to the segment [a, b].
	SegmentDistance(p, a, b geo.Point) float64

	// PointInPolygon reports whether p lies strictly inside or on the edge of
	// the closed ring.
	PointInPolygon(p geo.Point, ring []geo.Point) bool
}

// Default is the Tester used when none is configured.
var Default Tester = planar{}

type planar struct{}

func (planar) SegmentDistance(p, a, b geo.Point) float64 {
	return SegmentDistance(p, a, b)
}

func (planar) PointInPolygon(p geo.Point, ring []geo.Point) bool {
	return PointInPolygon(p, ring)
}

func vec(p geo.Point) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// SegmentDistance returns the distance from p to the closest point of the
// segment [a, b]. A degenerate segment is treated as the point a.
func SegmentDistance(p, a, b geo.Point) float64 {
	pv, av, bv := vec(p), vec(a), vec(b)
	ab := r2.Sub(bv, av)
	l2 := r2.Dot(ab, ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(pv, av))
	}

	t := r2.Dot(r2.Sub(pv, av), ab) / l2
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	closest := r2.Add(av, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(pv, closest))
}

// PointInPolygon reports whether p is inside the ring or on one of its
// edges. The ring is implicitly closed; rings with fewer than three points
// contain nothing.
func PointInPolygon(p geo.Point, ring []geo.Point) bool {
	if len(ring) < 3 {
		return false
	}
	path := make([]geom.Point, len(ring))
	for i, pt := range ring {
		path[i] = geom.Point{X: pt.X, Y: pt.Y}
	}
	return geom.Point{X: p.X, Y: p.Y}.Within(geom.Polygon{path}) != geom.Outside
}

// RingDistance returns the smallest distance from p to any edge of ring.
// When closed is true the edge from the last to the first point counts.
// An empty ring is infinitely far away.
func RingDistance(t Tester, p geo.Point, ring []geo.Point, closed bool) float64 {
	switch len(ring) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Distance(ring[0])
	}

	n := len(ring) - 1
	if closed {
		n = len(ring)
	}
	dists := make([]float64, n)
	for i := 0; i < n; i++ {
		dists[i] = t.SegmentDistance(p, ring[i], ring[(i+1)%len(ring)])
	}
	return floats.Min(dists)
}

// PolygonContains reports whether p hits the polygon described by its outer
// ring: either within tolerance of the border or inside it.
func PolygonContains(t Tester, p geo.Point, ring []geo.Point, tolerance float64) bool {
	if len(ring) == 0 {
		return false
	}
	if RingDistance(t, p, ring, true) <= tolerance {
		return true
	}
	return t.PointInPolygon(p, ring)
}

// PolylineNear reports whether p lies within tolerance of the open path.
func PolylineNear(t Tester, p geo.Point, path []geo.Point, tolerance float64) bool {
	return RingDistance(t, p, path, false) <= tolerance
}
