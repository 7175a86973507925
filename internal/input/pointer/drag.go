package pointer

import "github.com/dshills/geoedit/internal/geo"

// pressTracker tracks the press that is currently held.
type pressTracker struct {
	// active indicates a press is in progress.
	active bool

	// target is the target that owns the press, or nil for the viewport.
	target Target

	// button is the button being held.
	button Button

	// startPos is where the press started.
	startPos geo.Point

	// mods are the modifiers held when the press started.
	mods Modifier

	// grab is the offset from the pointer to the target's anchor.
	grab geo.Point

	// moved is set once the pointer travelled past the drag threshold.
	moved bool

	// dragging is set once a drag was started on the target.
	dragging bool

	// noClick suppresses the click at release (captured presses).
	noClick bool
}

// start begins tracking a new press.
func (t *pressTracker) start(pos geo.Point, button Button, mods Modifier, target Target) {
	*t = pressTracker{
		active:   true,
		target:   target,
		button:   button,
		startPos: pos,
		mods:     mods,
	}
	if target != nil {
		t.grab = target.Anchor().Sub(pos)
	}
}

// capture hands the press over to target.
func (t *pressTracker) capture(pos geo.Point, target Target) {
	if !t.active {
		t.start(pos, ButtonPrimary, ModNone, target)
	}
	t.target = target
	t.grab = target.Anchor().Sub(pos)
	t.noClick = true
}

// end clears the press.
func (t *pressTracker) end() {
	*t = pressTracker{}
}

// DragState describes the current press for hosts that render feedback.
type DragState struct {
	// Active indicates a press is in progress.
	Active bool

	// Dragging indicates the press turned into a drag.
	Dragging bool

	// Button is the button being held.
	Button Button

	// StartPos is where the press started.
	StartPos geo.Point
}
