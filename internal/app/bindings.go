package app

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/feature"
)

// Action is a named operation a key can be bound to.
type Action struct {
	Name string
	Help string
	Run  func(app *Application) error
}

type keyID struct {
	key tcell.Key
	r   rune
}

func keyOf(k tcell.Key, r rune) keyID {
	if k != tcell.KeyRune {
		r = 0
	}
	return keyID{key: k, r: r}
}

// Bindings maps keys to actions.
type Bindings struct {
	actions map[string]Action
	keys    map[keyID]string
}

// NewBindings returns an empty binding table.
func NewBindings() *Bindings {
	return &Bindings{
		actions: make(map[string]Action),
		keys:    make(map[keyID]string),
	}
}

// Register adds or replaces an action.
func (b *Bindings) Register(a Action) {
	b.actions[a.Name] = a
}

// Bind binds a key to a registered action. For tcell.KeyRune, r selects
// the character; otherwise it is ignored.
func (b *Bindings) Bind(k tcell.Key, r rune, action string) error {
	if _, ok := b.actions[action]; !ok {
		return fmt.Errorf("bind %q: unknown action", action)
	}
	b.keys[keyOf(k, r)] = action
	return nil
}

// Lookup returns the action bound to ev.
func (b *Bindings) Lookup(ev *tcell.EventKey) (Action, bool) {
	name, ok := b.keys[keyOf(ev.Key(), ev.Rune())]
	if !ok {
		return Action{}, false
	}
	a, ok := b.actions[name]
	return a, ok
}

// Action returns the registered action called name.
func (b *Bindings) Action(name string) (Action, bool) {
	a, ok := b.actions[name]
	return a, ok
}

// Actions returns the registered actions sorted by name.
func (b *Bindings) Actions() []Action {
	out := make([]Action, 0, len(b.actions))
	for _, a := range b.actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// KeysFor returns the names of the keys bound to action, sorted.
func (b *Bindings) KeysFor(action string) []string {
	var names []string
	for k, name := range b.keys {
		if name != action {
			continue
		}
		if k.key == tcell.KeyRune {
			names = append(names, string(k.r))
		} else if n, ok := tcell.KeyNames[k.key]; ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Pan steps in cells.
const (
	panColumns = 4
	panRows    = 2
)

var defaultActions = []Action{
	{"draw.polyline", "draw a new line", func(app *Application) error {
		_, err := app.session.StartPolyline()
		return err
	}},
	{"draw.polygon", "draw a new polygon", func(app *Application) error {
		_, err := app.session.StartPolygon()
		return err
	}},
	{"draw.marker", "place a new marker", func(app *Application) error {
		_, err := app.session.StartMarker(nil)
		return err
	}},
	{"draw.hole", "draw a hole in the current polygon", (*Application).startHole},
	{"draw.continue.forward", "extend the current line from its end", func(app *Application) error {
		return app.continueLine(true)
	}},
	{"draw.continue.backward", "extend the current line from its start", func(app *Application) error {
		return app.continueLine(false)
	}},
	{"draw.finish", "finish drawing", func(app *Application) error {
		ed := app.session.ActiveDrawer()
		if ed == nil {
			return ErrNotDrawing
		}
		ed.FinishDrawing()
		return nil
	}},
	{"draw.cancel", "cancel drawing", func(app *Application) error {
		ed := app.session.ActiveDrawer()
		if ed == nil {
			return ErrNotDrawing
		}
		ed.CancelDrawing()
		return nil
	}},
	{"edit.toggle", "toggle editing of the current feature", (*Application).toggleEdit},
	{"feature.delete", "remove the current feature", (*Application).deleteCurrent},
	{"view.pan.left", "pan left", func(app *Application) error { app.view.Pan(-panColumns, 0); return nil }},
	{"view.pan.right", "pan right", func(app *Application) error { app.view.Pan(panColumns, 0); return nil }},
	{"view.pan.up", "pan up", func(app *Application) error { app.view.Pan(0, -panRows); return nil }},
	{"view.pan.down", "pan down", func(app *Application) error { app.view.Pan(0, panRows); return nil }},
	{"view.zoom.in", "zoom in", func(app *Application) error { app.view.Zoom(2); return nil }},
	{"view.zoom.out", "zoom out", func(app *Application) error { app.view.Zoom(0.5); return nil }},
	{"input.touch", "toggle touch input", func(app *Application) error {
		app.view.SetTouch(!app.view.Touch())
		return nil
	}},
	{"app.quit", "quit", func(*Application) error { return ErrQuit }},
}

var defaultKeys = []struct {
	key    tcell.Key
	r      rune
	action string
}{
	{tcell.KeyRune, 'l', "draw.polyline"},
	{tcell.KeyRune, 'p', "draw.polygon"},
	{tcell.KeyRune, 'm', "draw.marker"},
	{tcell.KeyRune, 'h', "draw.hole"},
	{tcell.KeyRune, 'c', "draw.continue.forward"},
	{tcell.KeyRune, 'b', "draw.continue.backward"},
	{tcell.KeyEnter, 0, "draw.finish"},
	{tcell.KeyEscape, 0, "draw.cancel"},
	{tcell.KeyRune, 'e', "edit.toggle"},
	{tcell.KeyRune, 'x', "feature.delete"},
	{tcell.KeyDelete, 0, "feature.delete"},
	{tcell.KeyLeft, 0, "view.pan.left"},
	{tcell.KeyRight, 0, "view.pan.right"},
	{tcell.KeyUp, 0, "view.pan.up"},
	{tcell.KeyDown, 0, "view.pan.down"},
	{tcell.KeyRune, '+', "view.zoom.in"},
	{tcell.KeyRune, '=', "view.zoom.in"},
	{tcell.KeyRune, '-', "view.zoom.out"},
	{tcell.KeyRune, 't', "input.touch"},
	{tcell.KeyRune, 'q', "app.quit"},
	{tcell.KeyCtrlC, 0, "app.quit"},
}

// DefaultBindings returns the standard key bindings.
func DefaultBindings() *Bindings {
	b := NewBindings()
	for _, a := range defaultActions {
		b.Register(a)
	}
	for _, k := range defaultKeys {
		if err := b.Bind(k.key, k.r, k.action); err != nil {
			panic(err)
		}
	}
	return b
}

func (app *Application) startHole() error {
	poly, ok := app.Current().(*feature.Polygon)
	if !ok {
		return fmt.Errorf("%w: select a polygon", ErrNoFeature)
	}
	ed, err := app.session.EnableEdit(poly)
	if err != nil {
		return err
	}
	return app.session.StartHole(ed, nil)
}

func (app *Application) continueLine(forward bool) error {
	line, ok := app.Current().(*feature.Polyline)
	if !ok {
		return fmt.Errorf("%w: select a line", ErrNoFeature)
	}
	ed, err := app.session.EnableEdit(line)
	if err != nil {
		return err
	}
	pe, ok := ed.(*editable.PathEditor)
	if !ok {
		return editable.ErrWrongKind
	}
	if forward {
		return pe.ContinueForward()
	}
	return pe.ContinueBackward()
}

func (app *Application) toggleEdit() error {
	l := app.Current()
	if l == nil {
		return ErrNoFeature
	}
	if m := l.Group(); m != nil {
		return app.session.ToggleEditMulti(m)
	}
	return app.session.ToggleEdit(l)
}

func (app *Application) deleteCurrent() error {
	l := app.Current()
	if l == nil {
		return ErrNoFeature
	}
	if m := l.Group(); m != nil && app.view.HasLayer(m) {
		app.session.DisableEdit(l)
		m.Remove(l)
		if m.Len() == 0 {
			app.view.RemoveLayer(m)
		}
		app.SetCurrent(nil)
		app.view.Invalidate()
		return nil
	}
	if !app.view.HasLayer(l) {
		return ErrNoFeature
	}
	app.view.RemoveLayer(l)
	return nil
}
