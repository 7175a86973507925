package pointer

import (
	"sync"
	"time"

	"github.com/dshills/geoedit/internal/geo"
)

// ListenerFunc receives viewport-level pointer events.
type ListenerFunc func(ev *Event)

type listener struct {
	id uint64
	fn ListenerFunc
}

// Dispatcher routes raw pointer events to registered targets.
type Dispatcher struct {
	mu sync.Mutex

	config Config
	proj   Projector

	targets []Target

	moveListeners  []listener
	clickListeners []listener
	nextID         uint64

	press pressTracker
}

// NewDispatcher creates a dispatcher that unprojects screen points with proj.
// A nil proj leaves Event.Position as supplied by the host.
func NewDispatcher(proj Projector, config Config) *Dispatcher {
	return &Dispatcher{
		config: config,
		proj:   proj,
	}
}

// SetConfig replaces the dispatcher configuration.
func (d *Dispatcher) SetConfig(config Config) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.config = config
}

// Config returns the current configuration.
func (d *Dispatcher) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

// Register adds a target. Registering a target twice is a no-op.
func (d *Dispatcher) Register(t Target) {
	if t == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.targets {
		if existing == t {
			return
		}
	}
	d.targets = append(d.targets, t)
}

// Unregister removes a target. If the target owns the current press, the
// press continues without a target and produces no click.
func (d *Dispatcher) Unregister(t Target) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.targets {
		if existing == t {
			d.targets = append(d.targets[:i], d.targets[i+1:]...)
			break
		}
	}
	if d.press.active && d.press.target == t {
		d.press.target = nil
		d.press.dragging = false
		d.press.noClick = true
	}
}

// Registered reports whether t is registered.
func (d *Dispatcher) Registered(t Target) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.targets {
		if existing == t {
			return true
		}
	}
	return false
}

// TargetCount returns the number of registered targets.
func (d *Dispatcher) TargetCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.targets)
}

// TargetAt returns the topmost target under pt, or nil. Among targets with
// equal z-index the most recently registered wins.
func (d *Dispatcher) TargetAt(pt geo.Point) Target {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.targetAtLocked(pt)
}

func (d *Dispatcher) targetAtLocked(pt geo.Point) Target {
	var best Target
	for _, t := range d.targets {
		if !t.HitTest(pt) {
			continue
		}
		if best == nil || t.ZIndex() >= best.ZIndex() {
			best = t
		}
	}
	return best
}

// OnMove subscribes fn to every pointer move. It returns a function that
// cancels the subscription.
func (d *Dispatcher) OnMove(fn ListenerFunc) func() {
	return d.addListener(&d.moveListeners, fn)
}

// OnClick subscribes fn to clicks that hit no target.
func (d *Dispatcher) OnClick(fn ListenerFunc) func() {
	return d.addListener(&d.clickListeners, fn)
}

func (d *Dispatcher) addListener(list *[]listener, fn ListenerFunc) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	*list = append(*list, listener{id: id, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, l := range *list {
			if l.id == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

// Capture transfers the current press to t. The pointer keeps its offset to
// t's anchor as computed from ev, subsequent moves drag t, and the press no
// longer produces a click. Capture without an active press starts one.
func (d *Dispatcher) Capture(t Target, ev *Event) {
	if t == nil || ev == nil {
		return
	}
	d.mu.Lock()
	d.press.capture(ev.Screen, t)
	d.mu.Unlock()
}

// State returns the current press state.
func (d *Dispatcher) State() DragState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DragState{
		Active:   d.press.active,
		Dragging: d.press.dragging,
		Button:   d.press.button,
		StartPos: d.press.startPos,
	}
}

// Cancel abandons the current press without delivering any more events.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	d.press.end()
	d.mu.Unlock()
}

// Handle processes a raw pointer event.
func (d *Dispatcher) Handle(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if d.proj != nil {
		ev.Position = d.proj.Unproject(ev.Screen)
	}

	switch ev.Action {
	case ActionPress:
		d.handlePress(&ev)
	case ActionMove:
		d.handleMove(&ev)
	case ActionRelease:
		d.handleRelease(&ev)
	}
}

func (d *Dispatcher) handlePress(ev *Event) {
	if ev.Button == ButtonNone {
		ev.Button = ButtonPrimary
	}

	d.mu.Lock()
	target := d.targetAtLocked(ev.Screen)
	d.press.start(ev.Screen, ev.Button, ev.Modifiers, target)
	d.mu.Unlock()

	if target == nil {
		return
	}
	if ev.Button == ButtonSecondary {
		if cm, ok := target.(ContextMenuer); ok {
			cm.ContextMenu(ev)
		}
		return
	}
	if p, ok := target.(Presser); ok {
		p.PointerDown(ev)
	}
}

func (d *Dispatcher) handleMove(ev *Event) {
	d.mu.Lock()
	moves := append([]listener(nil), d.moveListeners...)
	d.mu.Unlock()

	for _, l := range moves {
		l.fn(ev)
	}

	d.mu.Lock()
	if !d.press.active || d.press.button == ButtonSecondary {
		d.mu.Unlock()
		return
	}
	starting := false
	if !d.press.moved && ev.Screen.Distance(d.press.startPos) > d.config.DragThreshold {
		d.press.moved = true
	}
	drag, canDrag := d.press.target.(Draggable)
	if d.press.moved && canDrag && !d.press.dragging {
		d.press.dragging = true
		starting = true
	}
	dragging := d.press.dragging
	grab := d.press.grab
	d.mu.Unlock()

	if !dragging {
		return
	}
	dev := d.dragEvent(ev, grab)
	if starting {
		drag.DragStart(dev)
	}
	drag.Drag(dev)
}

func (d *Dispatcher) handleRelease(ev *Event) {
	d.mu.Lock()
	press := d.press
	d.press.end()
	clicks := append([]listener(nil), d.clickListeners...)
	d.mu.Unlock()

	if !press.active {
		return
	}
	if ev.Button == ButtonNone {
		ev.Button = press.button
	}
	// Hosts may report the release without the keys held at press time.
	ev.Modifiers |= press.mods

	if press.dragging {
		if drag, ok := press.target.(Draggable); ok {
			drag.DragEnd(d.dragEvent(ev, press.grab))
		}
		return
	}
	if press.moved || press.noClick || press.button == ButtonSecondary {
		return
	}

	if press.target != nil {
		if c, ok := press.target.(Clicker); ok {
			c.Click(ev)
		}
		return
	}
	for _, l := range clicks {
		l.fn(ev)
	}
}

// dragEvent derives the event delivered to a dragged target: its position is
// that of the target's anchor, keeping the grab offset constant.
func (d *Dispatcher) dragEvent(ev *Event, grab geo.Point) *Event {
	dev := *ev
	dev.Screen = ev.Screen.Add(grab)
	if d.proj != nil {
		dev.Position = d.proj.Unproject(dev.Screen)
	}
	return &dev
}
