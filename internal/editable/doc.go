// Package editable implements interactive drawing and editing of features.
//
// A Session is created per viewport. It owns the root edit layer, the two
// guides that preview the next segment while drawing, the invisible pending
// handle that follows the pointer, and the single active drawer.
//
// Each feature being edited gets an Editor:
//
//	PointEditor  - markers; the marker itself is the drag handle
//	PathEditor   - polylines and polygons (with holes), one VertexHandle per
//	               position and one MidpointHandle per segment
//
// Editors share a small state machine:
//
//	Idle --StartDrawing--> DrawingForward --Finish/Cancel--> Idle
//	Idle --StartDrawingBackward--> DrawingBackward (polylines only)
//
// Positions are shared by pointer with the feature rings. Dragging a vertex
// mutates its position in place, so the feature, the guides and any other
// holder observe the change without copying.
//
// # Notifications
//
// Editors fire one *event.Event per notification and forward it to the
// feature, then to the feature's group (if any), then to the viewport
// channel. See package event for the topic names.
//
// # Handles and Midpoints
//
// A MidpointHandle sits halfway along every segment. Pressing one inserts a
// new position into the ring, creates a vertex handle for it and transfers
// the press to that vertex, so the gesture continues as a vertex drag.
// Every structural change recomputes the midpoints whose endpoints it
// touched, in the same call.
package editable
