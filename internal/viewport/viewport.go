package viewport

import (
	"sort"

	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
)

// Viewport is the host surface used by the editing core.
type Viewport interface {
	pointer.Projector

	// Center returns the position at the centre of the view.
	Center() geo.Position

	// Redraw schedules a redraw of l after its geometry changed.
	Redraw(l feature.Layer)

	// Invalidate schedules a full redraw.
	Invalidate()

	// Touch reports whether input comes from a touch device.
	Touch() bool

	// SetDrawing toggles a style class on the viewport while drawing.
	SetDrawing(class string, on bool)

	// Input returns the pointer dispatcher.
	Input() *pointer.Dispatcher

	// AddLayer shows a feature.
	AddLayer(l feature.Layer)

	// RemoveLayer hides a feature and fires TopicLayerRemove.
	RemoveLayer(l feature.Layer)

	// HasLayer reports whether l is shown.
	HasLayer(l feature.Layer) bool

	// Layers returns the shown features in insertion order.
	Layers() []feature.Layer

	// AddOverlay shows an overlay.
	AddOverlay(o Overlay)

	// RemoveOverlay hides an overlay.
	RemoveOverlay(o Overlay)

	// OnLayerRemove subscribes fn to feature removals.
	OnLayerRemove(fn func(l feature.Layer)) event.Subscription

	// Events returns the viewport-wide notification channel.
	Events() *event.Emitter
}

// Base implements Viewport state shared by every host.
type Base struct {
	proj   pointer.Projector
	center geo.Position
	touch  bool

	input  *pointer.Dispatcher
	events *event.Emitter

	layers   []feature.Layer
	overlays []Overlay
	classes  map[string]bool

	redraws map[string]int
	dirty   bool

	// OnRedraw, when set, is called after every Redraw and Invalidate.
	OnRedraw func(l feature.Layer)
}

// NewBase creates viewport state around proj.
func NewBase(proj pointer.Projector, center geo.Position, config pointer.Config) *Base {
	b := &Base{
		center:  center,
		events:  event.NewEmitter(),
		classes: make(map[string]bool),
		redraws: make(map[string]int),
	}
	b.proj = proj
	b.input = pointer.NewDispatcher(b, config)
	return b
}

// SetProjection replaces the projection.
func (b *Base) SetProjection(proj pointer.Projector) { b.proj = proj }

// Project converts a position to a screen point.
func (b *Base) Project(p geo.Position) geo.Point { return b.proj.Project(p) }

// Unproject converts a screen point to a position.
func (b *Base) Unproject(pt geo.Point) geo.Position { return b.proj.Unproject(pt) }

// Center returns the position at the centre of the view.
func (b *Base) Center() geo.Position { return b.center }

// SetCenter moves the centre of the view.
func (b *Base) SetCenter(p geo.Position) {
	b.center = p
	b.Invalidate()
}

// Touch reports whether input comes from a touch device.
func (b *Base) Touch() bool { return b.touch }

// SetTouch sets the touch flag.
func (b *Base) SetTouch(on bool) { b.touch = on }

// Input returns the pointer dispatcher.
func (b *Base) Input() *pointer.Dispatcher { return b.input }

// Events returns the viewport-wide notification channel.
func (b *Base) Events() *event.Emitter { return b.events }

// Redraw records a redraw of l and calls OnRedraw.
func (b *Base) Redraw(l feature.Layer) {
	if l != nil {
		b.redraws[l.ID()]++
	}
	b.dirty = true
	if b.OnRedraw != nil {
		b.OnRedraw(l)
	}
}

// Invalidate schedules a full redraw.
func (b *Base) Invalidate() {
	b.dirty = true
	if b.OnRedraw != nil {
		b.OnRedraw(nil)
	}
}

// Redraws returns how many times l was redrawn.
func (b *Base) Redraws(l feature.Layer) int { return b.redraws[l.ID()] }

// Dirty reports whether a redraw is pending.
func (b *Base) Dirty() bool { return b.dirty }

// ClearDirty resets the pending redraw flag.
func (b *Base) ClearDirty() { b.dirty = false }

// SetDrawing toggles a style class on the viewport.
func (b *Base) SetDrawing(class string, on bool) {
	if class == "" {
		return
	}
	if on {
		b.classes[class] = true
	} else {
		delete(b.classes, class)
	}
	b.Invalidate()
}

// HasClass reports whether class is set.
func (b *Base) HasClass(class string) bool { return b.classes[class] }

// AddLayer shows a feature. Adding a shown feature is a no-op.
func (b *Base) AddLayer(l feature.Layer) {
	if l == nil || b.HasLayer(l) {
		return
	}
	b.layers = append(b.layers, l)
	b.events.Fire(event.New(event.TopicLayerAdd).WithLayer(l))
	b.Invalidate()
}

// RemoveLayer hides a feature and fires TopicLayerRemove.
func (b *Base) RemoveLayer(l feature.Layer) {
	for i, existing := range b.layers {
		if existing == l {
			b.layers = append(b.layers[:i], b.layers[i+1:]...)
			b.events.Fire(event.New(event.TopicLayerRemove).WithLayer(l))
			b.Invalidate()
			return
		}
	}
}

// HasLayer reports whether l is shown.
func (b *Base) HasLayer(l feature.Layer) bool {
	for _, existing := range b.layers {
		if existing == l {
			return true
		}
	}
	return false
}

// Layers returns the shown features in insertion order.
func (b *Base) Layers() []feature.Layer {
	out := make([]feature.Layer, len(b.layers))
	copy(out, b.layers)
	return out
}

// AddOverlay shows an overlay. Adding a shown overlay is a no-op.
func (b *Base) AddOverlay(o Overlay) {
	for _, existing := range b.overlays {
		if existing == o {
			return
		}
	}
	b.overlays = append(b.overlays, o)
	b.dirty = true
}

// RemoveOverlay hides an overlay.
func (b *Base) RemoveOverlay(o Overlay) {
	for i, existing := range b.overlays {
		if existing == o {
			b.overlays = append(b.overlays[:i], b.overlays[i+1:]...)
			b.dirty = true
			return
		}
	}
}

// Overlays returns the shown overlays.
func (b *Base) Overlays() []Overlay {
	out := make([]Overlay, len(b.overlays))
	copy(out, b.overlays)
	return out
}

// Shapes returns the drawable shapes of every overlay, ordered by z-index.
func (b *Base) Shapes() []Shape {
	shapes := make([]Shape, 0, len(b.overlays))
	for _, o := range b.overlays {
		if s, ok := o.Shape(); ok {
			shapes = append(shapes, s)
		}
	}
	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].ZIndex < shapes[j].ZIndex })
	return shapes
}

// OnLayerRemove subscribes fn to feature removals.
func (b *Base) OnLayerRemove(fn func(l feature.Layer)) event.Subscription {
	return b.events.Listen(string(event.TopicLayerRemove), func(ev *event.Event) {
		if l, ok := ev.Layer.(feature.Layer); ok {
			fn(l)
		}
	}, event.WithPriority(event.PriorityCritical))
}
