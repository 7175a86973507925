// Package geo holds the value types shared by every layer of geoedit.
//
// A Position is a geographic coordinate. Rings hold positions by pointer so
// that the pointer itself is a stable identity: dragging a vertex mutates the
// Position in place and every holder of the same pointer sees the change.
//
// Point is a screen-space coordinate produced by a viewport projection.
package geo
