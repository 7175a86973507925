package pointer

import "github.com/dshills/geoedit/internal/geo"

// Target is anything the dispatcher can hit-test.
type Target interface {
	// Anchor returns the target's reference point in screen coordinates.
	// Drags keep the offset between the pointer and the anchor constant.
	Anchor() geo.Point

	// HitTest reports whether pt falls on the target.
	HitTest(pt geo.Point) bool

	// ZIndex orders overlapping targets; the highest wins.
	ZIndex() int
}

// Presser receives the press that starts a gesture.
type Presser interface {
	PointerDown(ev *Event)
}

// Clicker receives clicks, including clicks synthesized from a touch end.
type Clicker interface {
	Click(ev *Event)
}

// ContextMenuer receives secondary-button presses.
type ContextMenuer interface {
	ContextMenu(ev *Event)
}

// Draggable receives drag gestures.
type Draggable interface {
	DragStart(ev *Event)
	Drag(ev *Event)
	DragEnd(ev *Event)
}
