// Package terminal hosts an editing session in a tcell screen.
//
// Screen coordinates are virtual pixels: each cell is CellWidth by
// CellHeight units, and a mouse event reports the centre of its cell. The
// projection keeps one degree of latitude and longitude the same on-screen
// length, so Scale cells per degree horizontally is Scale/2 rows
// vertically.
//
// Mouse input is decoded into pointer events: a Move to the cell first,
// then a Press, Move or Release depending on how the button mask changed
// since the previous event.
package terminal
