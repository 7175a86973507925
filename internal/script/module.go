package script

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
)

// module builds the geoedit table.
func (e *Engine) module(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"on":     e.on,
		"once":   e.once,
		"off":    e.off,
		"pause":  e.pause,
		"resume": e.resume,

		"polyline": e.polyline,
		"polygon":  e.polygon,
		"marker":   e.marker,
		"multi":    e.multi,
		"remove":   e.remove,

		"start_polyline": e.startPolyline,
		"start_polygon":  e.startPolygon,
		"start_marker":   e.startMarker,
		"start_hole":     e.startHole,
		"extend":         e.extend,
		"continue":       e.continueDrawing,
		"finish":         e.finish,
		"cancel":         e.cancel,
		"drawing":        e.drawing,

		"enable":  e.enable,
		"disable": e.disable,
		"toggle":  e.toggle,
		"state":   e.state,

		"move":        e.move,
		"click":       e.click,
		"drag":        e.drag,
		"contextmenu": e.contextMenu,

		"layers": e.layers,
		"kind":   e.kind,
		"coords": e.coords,
		"rings":  e.rings,
	})
	return mod
}

// on(pattern, fn [, layer]) -> id
//
// With a layer ID the hook only sees notifications about that feature, or
// about members of that group.
func (e *Engine) on(L *lua.LState) int {
	return e.subscribe(L, false)
}

// once(pattern, fn [, layer]) -> id
func (e *Engine) once(L *lua.LState) int {
	return e.subscribe(L, true)
}

func (e *Engine) subscribe(L *lua.LState, once bool) int {
	pattern := L.CheckString(1)
	fn := L.CheckFunction(2)
	id, err := e.addHook(pattern, fn, once, L.OptString(3, ""))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LString(id))
	return 1
}

// off(id) -> bool
func (e *Engine) off(L *lua.LState) int {
	L.Push(lua.LBool(e.removeHook(L.CheckString(1))))
	return 1
}

// pause(id) -> bool
func (e *Engine) pause(L *lua.LState) int {
	h, ok := e.hooks[L.CheckString(1)]
	if ok {
		h.sub.Pause()
	}
	L.Push(lua.LBool(ok))
	return 1
}

// resume(id) -> bool
func (e *Engine) resume(L *lua.LState) int {
	h, ok := e.hooks[L.CheckString(1)]
	if ok {
		h.sub.Resume()
	}
	L.Push(lua.LBool(ok))
	return 1
}

// polyline({{lat, lng}, ...}) -> id
func (e *Engine) polyline(L *lua.LState) int {
	coords := checkCoords(L, 1)
	l := e.session.CreatePolyline(coords...)
	e.session.Viewport().AddLayer(l)
	L.Push(lua.LString(l.ID()))
	return 1
}

// polygon(outer, hole...) -> id
func (e *Engine) polygon(L *lua.LState) int {
	p := e.session.CreatePolygon(checkCoords(L, 1)...)
	for i := 2; i <= L.GetTop(); i++ {
		p.AddHole(geo.NewRing(checkCoords(L, i)...))
	}
	e.session.Viewport().AddLayer(p)
	L.Push(lua.LString(p.ID()))
	return 1
}

// marker(lat, lng) -> id
func (e *Engine) marker(L *lua.LState) int {
	m := e.session.CreateMarker(geo.NewPosition(float64(L.CheckNumber(1)), float64(L.CheckNumber(2))))
	e.session.Viewport().AddLayer(m)
	L.Push(lua.LString(m.ID()))
	return 1
}

// multi(kind) -> id
func (e *Engine) multi(L *lua.LState) int {
	var kind feature.Kind
	switch name := L.CheckString(1); name {
	case "polyline":
		kind = feature.KindPolyline
	case "polygon":
		kind = feature.KindPolygon
	default:
		L.ArgError(1, fmt.Sprintf("cannot group %q features", name))
		return 0
	}
	m := feature.NewMulti(kind)
	e.session.Viewport().AddLayer(m)
	L.Push(lua.LString(m.ID()))
	return 1
}

// remove(id)
func (e *Engine) remove(L *lua.LState) int {
	l := e.checkLayer(L, 1)
	if g := l.Group(); g != nil {
		if ed := editable.EditorFor(l); ed != nil {
			ed.Disable()
		}
		g.Remove(l)
	} else {
		e.session.Viewport().RemoveLayer(l)
	}
	return 0
}

// start_polyline() -> id
func (e *Engine) startPolyline(L *lua.LState) int {
	l, err := e.session.StartPolyline()
	if err != nil {
		L.RaiseError("start_polyline: %v", err)
		return 0
	}
	L.Push(lua.LString(l.ID()))
	return 1
}

// start_polygon() -> id
func (e *Engine) startPolygon(L *lua.LState) int {
	p, err := e.session.StartPolygon()
	if err != nil {
		L.RaiseError("start_polygon: %v", err)
		return 0
	}
	L.Push(lua.LString(p.ID()))
	return 1
}

// start_marker([lat, lng]) -> id
func (e *Engine) startMarker(L *lua.LState) int {
	m, err := e.session.StartMarker(optPosition(L, 1))
	if err != nil {
		L.RaiseError("start_marker: %v", err)
		return 0
	}
	L.Push(lua.LString(m.ID()))
	return 1
}

// start_hole(id [, lat, lng])
func (e *Engine) startHole(L *lua.LState) int {
	ed, err := e.session.EnableEdit(e.checkLayer(L, 1))
	if err == nil {
		err = e.session.StartHole(ed, optPosition(L, 2))
	}
	if err != nil {
		L.RaiseError("start_hole: %v", err)
	}
	return 0
}

// extend(id) -> id of the new member
func (e *Engine) extend(L *lua.LState) int {
	m, ok := e.checkLayer(L, 1).(*feature.Multi)
	if !ok {
		L.ArgError(1, "not a group")
		return 0
	}
	l, err := e.session.ExtendMulti(m)
	if err != nil {
		L.RaiseError("extend: %v", err)
		return 0
	}
	L.Push(lua.LString(l.ID()))
	return 1
}

// continue(id, "forward"|"backward")
func (e *Engine) continueDrawing(L *lua.LState) int {
	ed, err := e.session.EnableEdit(e.checkLayer(L, 1))
	if err != nil {
		L.RaiseError("continue: %v", err)
		return 0
	}
	pe, ok := ed.(*editable.PathEditor)
	if !ok {
		L.RaiseError("continue: %v", editable.ErrWrongKind)
		return 0
	}
	switch dir := L.OptString(2, "forward"); dir {
	case "forward":
		err = pe.ContinueForward()
	case "backward":
		err = pe.ContinueBackward()
	default:
		L.ArgError(2, fmt.Sprintf("unknown direction %q", dir))
		return 0
	}
	if err != nil {
		L.RaiseError("continue: %v", err)
	}
	return 0
}

// finish() finishes the active drawing.
func (e *Engine) finish(L *lua.LState) int {
	if ed := e.session.ActiveDrawer(); ed != nil {
		ed.FinishDrawing()
	}
	return 0
}

// cancel() cancels the active drawing.
func (e *Engine) cancel(L *lua.LState) int {
	e.session.StopDrawing()
	return 0
}

// drawing() -> id or nil
func (e *Engine) drawing(L *lua.LState) int {
	ed := e.session.ActiveDrawer()
	if ed == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(ed.Feature().ID()))
	return 1
}

// enable(id)
func (e *Engine) enable(L *lua.LState) int {
	l := e.checkLayer(L, 1)
	var err error
	if m, ok := l.(*feature.Multi); ok {
		err = e.session.EnableEditMulti(m)
	} else {
		_, err = e.session.EnableEdit(l)
	}
	if err != nil {
		L.RaiseError("enable: %v", err)
	}
	return 0
}

// disable(id)
func (e *Engine) disable(L *lua.LState) int {
	l := e.checkLayer(L, 1)
	if m, ok := l.(*feature.Multi); ok {
		e.session.DisableEditMulti(m)
	} else {
		e.session.DisableEdit(l)
	}
	return 0
}

// toggle(id)
func (e *Engine) toggle(L *lua.LState) int {
	l := e.checkLayer(L, 1)
	var err error
	if m, ok := l.(*feature.Multi); ok {
		err = e.session.ToggleEditMulti(m)
	} else {
		err = e.session.ToggleEdit(l)
	}
	if err != nil {
		L.RaiseError("toggle: %v", err)
	}
	return 0
}

// state(id) -> "disabled" or the editor state name
func (e *Engine) state(L *lua.LState) int {
	ed := editable.EditorFor(e.checkLayer(L, 1))
	if ed == nil || !ed.Enabled() {
		L.Push(lua.LString("disabled"))
		return 1
	}
	L.Push(lua.LString(ed.State().String()))
	return 1
}

// move(lat, lng)
func (e *Engine) move(L *lua.LState) int {
	d := e.checkDriver(L)
	d.Move(checkPosition(L, 1))
	return 0
}

// click(lat, lng [, "ctrl+shift"])
func (e *Engine) click(L *lua.LState) int {
	d := e.checkDriver(L)
	d.Click(checkPosition(L, 1), ParseModifiers(L.OptString(3, "")))
	return 0
}

// drag(lat1, lng1, lat2, lng2)
func (e *Engine) drag(L *lua.LState) int {
	d := e.checkDriver(L)
	d.Drag(checkPosition(L, 1), checkPosition(L, 3))
	return 0
}

// contextmenu(lat, lng)
func (e *Engine) contextMenu(L *lua.LState) int {
	d := e.checkDriver(L)
	d.ContextMenu(checkPosition(L, 1))
	return 0
}

// layers() -> {id, ...}
func (e *Engine) layers(L *lua.LState) int {
	t := L.NewTable()
	for _, l := range e.session.Viewport().Layers() {
		t.Append(lua.LString(l.ID()))
	}
	L.Push(t)
	return 1
}

// kind(id) -> "marker" | "polyline" | "polygon" | "multi"
func (e *Engine) kind(L *lua.LState) int {
	L.Push(lua.LString(e.checkLayer(L, 1).Kind().String()))
	return 1
}

// coords(id) -> {{lat, lng}, ...} of the first ring, or {lat, lng} of a marker
func (e *Engine) coords(L *lua.LState) int {
	switch l := e.checkLayer(L, 1).(type) {
	case *feature.Marker:
		L.Push(positionTable(L, *l.LatLng()))
	case feature.Ringed:
		rings := l.Rings()
		if len(rings) == 0 {
			L.Push(L.NewTable())
		} else {
			L.Push(ringTable(L, rings[0]))
		}
	default:
		L.Push(L.NewTable())
	}
	return 1
}

// rings(id) -> {{{lat, lng}, ...}, ...}
func (e *Engine) rings(L *lua.LState) int {
	t := L.NewTable()
	if l, ok := e.checkLayer(L, 1).(feature.Ringed); ok {
		for _, r := range l.Rings() {
			t.Append(ringTable(L, r))
		}
	}
	L.Push(t)
	return 1
}

func (e *Engine) checkDriver(L *lua.LState) Driver {
	if e.driver == nil {
		L.RaiseError("%v", ErrNoDriver)
	}
	return e.driver
}

// lookup finds a shown feature or group member by ID.
func (e *Engine) lookup(id string) feature.Layer {
	for _, l := range e.session.Viewport().Layers() {
		if l.ID() == id {
			return l
		}
		if m, ok := l.(*feature.Multi); ok {
			for _, member := range m.Layers() {
				if member.ID() == id {
					return member
				}
			}
		}
	}
	return nil
}

func (e *Engine) checkLayer(L *lua.LState, n int) feature.Layer {
	id := L.CheckString(n)
	l := e.lookup(id)
	if l == nil {
		L.ArgError(n, fmt.Sprintf("%v: %s", ErrUnknownLayer, id))
	}
	return l
}

// ParseModifiers parses a modifier list such as "ctrl+shift". Unknown
// names are ignored.
func ParseModifiers(s string) pointer.Modifier {
	var mods pointer.Modifier
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	}) {
		switch part {
		case "shift":
			mods |= pointer.ModShift
		case "ctrl", "control":
			mods |= pointer.ModCtrl
		case "alt", "option":
			mods |= pointer.ModAlt
		case "meta", "cmd":
			mods |= pointer.ModMeta
		}
	}
	return mods
}

func checkPosition(L *lua.LState, n int) geo.Position {
	return geo.Position{Lat: float64(L.CheckNumber(n)), Lng: float64(L.CheckNumber(n + 1))}
}

func optPosition(L *lua.LState, n int) *geo.Position {
	if L.Get(n) == lua.LNil {
		return nil
	}
	p := checkPosition(L, n)
	return &p
}

// checkCoords reads a list of {lat, lng} pairs.
func checkCoords(L *lua.LState, n int) []geo.Position {
	t := L.CheckTable(n)
	coords := make([]geo.Position, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		pair, ok := t.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(n, fmt.Sprintf("coordinate %d is not a {lat, lng} pair", i))
			return nil
		}
		lat, latOK := pair.RawGetInt(1).(lua.LNumber)
		lng, lngOK := pair.RawGetInt(2).(lua.LNumber)
		if !latOK || !lngOK {
			L.ArgError(n, fmt.Sprintf("coordinate %d is not a {lat, lng} pair", i))
			return nil
		}
		coords = append(coords, geo.Position{Lat: float64(lat), Lng: float64(lng)})
	}
	return coords
}

func positionTable(L *lua.LState, p geo.Position) *lua.LTable {
	t := L.CreateTable(2, 0)
	t.Append(lua.LNumber(p.Lat))
	t.Append(lua.LNumber(p.Lng))
	return t
}

func ringTable(L *lua.LState, r *geo.Ring) *lua.LTable {
	t := L.CreateTable(r.Len(), 0)
	for _, p := range r.Coords() {
		t.Append(positionTable(L, p))
	}
	return t
}

// eventTable converts a notification into the table passed to hooks.
func eventTable(L *lua.LState, ev *event.Event) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("type", lua.LString(ev.Type.String()))
	if ev.Layer != nil {
		t.RawSetString("layer", lua.LString(ev.Layer.ID()))
		if l, ok := ev.Layer.(feature.Layer); ok {
			t.RawSetString("kind", lua.LString(l.Kind().String()))
		}
	}
	if ev.Vertex != nil {
		t.RawSetString("vertex", lua.LString(ev.Vertex.ID()))
	}
	if ev.Middle != nil {
		t.RawSetString("middle", lua.LString(ev.Middle.ID()))
	}
	if ev.Position != nil {
		t.RawSetString("lat", lua.LNumber(ev.Position.Lat))
		t.RawSetString("lng", lua.LNumber(ev.Position.Lng))
	}
	if ev.Pointer != nil {
		t.RawSetString("modifiers", lua.LString(ev.Pointer.Modifiers.String()))
		t.RawSetString("touch", lua.LBool(ev.Pointer.Touch))
	}
	return t
}
