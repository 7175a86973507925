package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
)

const buttonMask = tcell.Button1 | tcell.Button2 | tcell.Button3

// HandleMouse decodes a tcell mouse event into pointer events and feeds
// them to the dispatcher. Wheel events zoom.
func (v *Viewport) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pressed := ev.Buttons() & buttonMask
	mods := ConvertModifiers(ev.Modifiers())
	at := CellCenter(x, y)

	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		v.Zoom(2)
		return
	case ev.Buttons()&tcell.WheelDown != 0:
		v.Zoom(0.5)
		return
	}

	v.mu.Lock()
	prev := v.buttons
	moved := x != v.lastX || y != v.lastY
	v.buttons = pressed
	v.lastX, v.lastY = x, y
	v.mu.Unlock()

	base := pointer.Event{
		Screen:    at,
		Modifiers: mods,
		Touch:     v.Touch(),
		Timestamp: ev.When(),
	}

	if moved {
		move := base
		move.Action = pointer.ActionMove
		v.Input().Handle(move)
	}

	for _, b := range []tcell.ButtonMask{tcell.Button1, tcell.Button2, tcell.Button3} {
		switch {
		case pressed&b != 0 && prev&b == 0:
			press := base
			press.Action = pointer.ActionPress
			press.Button = ConvertButton(b)
			v.Input().Handle(press)
		case pressed&b == 0 && prev&b != 0:
			release := base
			release.Action = pointer.ActionRelease
			release.Button = ConvertButton(b)
			v.Input().Handle(release)
		}
	}
}

// ConvertButton maps a tcell button to a pointer button.
func ConvertButton(b tcell.ButtonMask) pointer.Button {
	switch {
	case b&tcell.Button1 != 0:
		return pointer.ButtonPrimary
	case b&tcell.Button2 != 0:
		return pointer.ButtonSecondary
	case b&tcell.Button3 != 0:
		return pointer.ButtonMiddle
	default:
		return pointer.ButtonNone
	}
}

// ConvertModifiers maps tcell modifiers to pointer modifiers.
func ConvertModifiers(m tcell.ModMask) pointer.Modifier {
	var mods pointer.Modifier
	if m&tcell.ModShift != 0 {
		mods |= pointer.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= pointer.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= pointer.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= pointer.ModMeta
	}
	return mods
}

// The methods below let scripts drive the terminal viewport the same way
// they drive a headless one.

// Move moves the pointer to p.
func (v *Viewport) Move(p geo.Position) {
	v.feed(p, tcell.ButtonNone, tcell.ModNone)
}

// Click moves to p, then presses and releases the primary button there.
func (v *Viewport) Click(p geo.Position, mods pointer.Modifier) {
	m := toTcellModifiers(mods)
	v.feed(p, tcell.ButtonNone, m)
	v.feed(p, tcell.Button1, m)
	v.feed(p, tcell.ButtonNone, m)
}

// Drag presses at from, moves to to and releases there.
func (v *Viewport) Drag(from, to geo.Position) {
	v.feed(from, tcell.ButtonNone, tcell.ModNone)
	v.feed(from, tcell.Button1, tcell.ModNone)
	v.feed(to, tcell.Button1, tcell.ModNone)
	v.feed(to, tcell.ButtonNone, tcell.ModNone)
}

// ContextMenu presses and releases the secondary button at p.
func (v *Viewport) ContextMenu(p geo.Position) {
	v.feed(p, tcell.ButtonNone, tcell.ModNone)
	v.feed(p, tcell.Button2, tcell.ModNone)
	v.feed(p, tcell.ButtonNone, tcell.ModNone)
}

func (v *Viewport) feed(p geo.Position, buttons tcell.ButtonMask, mods tcell.ModMask) {
	x, y := CellOf(v.Project(p))
	v.HandleMouse(tcell.NewEventMouse(x, y, buttons, mods))
}

func toTcellModifiers(m pointer.Modifier) tcell.ModMask {
	var mods tcell.ModMask
	if m.HasShift() {
		mods |= tcell.ModShift
	}
	if m.HasCtrl() {
		mods |= tcell.ModCtrl
	}
	if m.HasAlt() {
		mods |= tcell.ModAlt
	}
	if m.HasMeta() {
		mods |= tcell.ModMeta
	}
	return mods
}
