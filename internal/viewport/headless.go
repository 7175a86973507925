package viewport

import (
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
)

// Headless is a viewport without a screen. Its default projection maps
// longitude to X and latitude to -Y one to one.
type Headless struct {
	*Base
}

// NewHeadless creates a headless viewport centred on the origin.
func NewHeadless() *Headless {
	return NewHeadlessWith(Linear{ScaleX: 1, ScaleY: 1}, geo.Position{}, pointer.DefaultConfig())
}

// NewHeadlessWith creates a headless viewport with an explicit projection.
func NewHeadlessWith(proj pointer.Projector, center geo.Position, config pointer.Config) *Headless {
	return &Headless{Base: NewBase(proj, center, config)}
}

// Press feeds a primary press at the screen location of p.
func (h *Headless) Press(p geo.Position, mods pointer.Modifier) {
	h.input.Handle(pointer.Event{
		Screen:    h.Project(p),
		Button:    pointer.ButtonPrimary,
		Modifiers: mods,
		Action:    pointer.ActionPress,
		Touch:     h.touch,
	})
}

// Release feeds a primary release at the screen location of p.
func (h *Headless) Release(p geo.Position, mods pointer.Modifier) {
	h.input.Handle(pointer.Event{
		Screen:    h.Project(p),
		Button:    pointer.ButtonPrimary,
		Modifiers: mods,
		Action:    pointer.ActionRelease,
		Touch:     h.touch,
	})
}

// Move feeds a pointer move to the screen location of p.
func (h *Headless) Move(p geo.Position) {
	h.input.Handle(pointer.Event{
		Screen: h.Project(p),
		Action: pointer.ActionMove,
		Touch:  h.touch,
	})
}

// Click moves the pointer to p, then feeds a press and release there.
func (h *Headless) Click(p geo.Position, mods pointer.Modifier) {
	h.Move(p)
	h.Press(p, mods)
	h.Release(p, mods)
}

// Drag moves the pointer to from, presses, moves to to and releases.
func (h *Headless) Drag(from, to geo.Position) {
	h.Move(from)
	h.Press(from, pointer.ModNone)
	h.Move(to)
	h.Release(to, pointer.ModNone)
}

// ContextMenu feeds a secondary-button press and release at p.
func (h *Headless) ContextMenu(p geo.Position) {
	pt := h.Project(p)
	h.input.Handle(pointer.Event{Screen: pt, Button: pointer.ButtonSecondary, Action: pointer.ActionPress})
	h.input.Handle(pointer.Event{Screen: pt, Button: pointer.ButtonSecondary, Action: pointer.ActionRelease})
}
