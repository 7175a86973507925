package geo

import (
	"fmt"
	"math"
)

// Position is a geographic coordinate.
type Position struct {
	Lat float64
	Lng float64
}

// NewPosition allocates a position.
func NewPosition(lat, lng float64) *Position {
	return &Position{Lat: lat, Lng: lng}
}

// Set overwrites the coordinate in place.
func (p *Position) Set(other Position) {
	p.Lat = other.Lat
	p.Lng = other.Lng
}

// Equal reports whether two positions hold the same coordinate.
func (p Position) Equal(other Position) bool {
	return p.Lat == other.Lat && p.Lng == other.Lng
}

// String returns a compact representation for logs.
func (p Position) String() string {
	return fmt.Sprintf("(%g,%g)", p.Lat, p.Lng)
}

// Midpoint returns the arithmetic midpoint of a and b.
func Midpoint(a, b Position) Position {
	return Position{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}

// Point is a screen coordinate.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the euclidean distance between two screen points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
