// Package pointer provides pointer and touch input handling for geoedit.
//
// Hosts translate their native mouse or touch events into pointer.Event
// values and feed them to a Dispatcher. The Dispatcher hit-tests registered
// targets (handles) and turns raw press/move/release sequences into the
// gestures the editing core consumes:
//
//   - PointerDown on press over a target
//   - Click when a press is released without moving past the drag threshold
//     (a touch end without movement is a synthesized click)
//   - ContextMenu for secondary-button presses
//   - DragStart, Drag, DragEnd for draggable targets
//
// Presses that land on no target are delivered to viewport-level click
// listeners; every move is delivered to viewport-level move listeners.
//
// # Capture Transfer
//
// A target may hand an in-progress press to another target with Capture.
// The new target keeps receiving the drag as if the press had started on
// it, and the press no longer produces a click. The editing core uses this
// to turn a midpoint handle into a vertex in the middle of a gesture.
//
// # Thread Safety
//
// Target and listener registration is synchronized. Handle must be called
// from a single goroutine; callbacks run on that goroutine without any
// internal lock held, so they may register, unregister or capture.
package pointer
