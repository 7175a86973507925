package editable

import (
	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/event/topic"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/logging"
)

// State is the drawing state of an editor.
type State int

const (
	// StateIdle means the editor is not drawing.
	StateIdle State = iota
	// StateDrawingForward means new points are appended.
	StateDrawingForward
	// StateDrawingBackward means new points are prepended.
	StateDrawingBackward
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawingForward:
		return "drawing-forward"
	case StateDrawingBackward:
		return "drawing-backward"
	default:
		return "unknown"
	}
}

// Editor is the capability shared by every feature editor.
type Editor interface {
	feature.Editor

	// Feature returns the edited feature.
	Feature() feature.Layer

	// StartDrawing enters a drawing state.
	StartDrawing()

	// FinishDrawing completes drawing. It does nothing when idle.
	FinishDrawing()

	// CancelDrawing aborts drawing. It does nothing when idle.
	CancelDrawing()

	// State returns the drawing state.
	State() State

	// Drawing reports whether the editor is in a drawing state.
	Drawing() bool

	// Refresh redraws the feature and fires editable.editing.
	Refresh()

	// Layer returns the editor's edit layer.
	Layer() *Layer
}

// drawer is the part of an editor the session talks to while it is the
// active drawer.
type drawer interface {
	Editor
	onPointerMove(ev *pointer.Event)
	onNewPointConfirmed(ev *pointer.Event) bool
}

// editorBase holds state shared by the editor kinds.
type editorBase struct {
	session *Session
	feature feature.Layer
	layer   *Layer
	state   State
	enabled bool
	log     *logging.Logger
}

func newEditorBase(s *Session, l feature.Layer) editorBase {
	return editorBase{
		session: s,
		feature: l,
		layer:   newLayer(s.vp),
		log:     s.opts.Logger.WithComponent("editable").WithField("feature", l.ID()),
	}
}

// Feature returns the edited feature.
func (b *editorBase) Feature() feature.Layer { return b.feature }

// Enabled reports whether editing is enabled.
func (b *editorBase) Enabled() bool { return b.enabled }

// State returns the drawing state.
func (b *editorBase) State() State { return b.state }

// Drawing reports whether the editor is in a drawing state.
func (b *editorBase) Drawing() bool { return b.state != StateIdle }

// Layer returns the editor's edit layer.
func (b *editorBase) Layer() *Layer { return b.layer }

// Session returns the owning session.
func (b *editorBase) Session() *Session { return b.session }

// fire delivers ev to the feature, its group and the viewport, in that
// order, with Layer set to the feature.
func (b *editorBase) fire(ev *event.Event) *event.Event {
	ev.Layer = b.feature
	b.feature.Events().Fire(ev)
	if g := b.feature.Group(); g != nil {
		g.Events().Fire(ev)
	}
	b.session.vp.Events().Fire(ev)
	return ev
}

func (b *editorBase) fireTopic(t topic.Topic) *event.Event {
	return b.fire(event.New(t))
}

// attach shows the edit layer and fires editable.enable.
func (b *editorBase) attach() {
	b.session.root.add(b.layer)
	b.fireTopic(event.TopicEnable)
	b.enabled = true
	b.log.Debug("editing enabled")
}

// detach clears and hides the edit layer, firing editable.disable if
// editing was enabled.
func (b *editorBase) detach() {
	b.layer.clear()
	b.session.root.remove(b.layer)
	if b.enabled {
		b.fireTopic(event.TopicDisable)
		b.log.Debug("editing disabled")
	}
	b.enabled = false
}

// beginDrawing enters forward drawing unless already drawing, registers
// self with the session and fires editable.drawing.start.
func (b *editorBase) beginDrawing(self drawer) {
	if b.state == StateIdle {
		b.state = StateDrawingForward
	}
	b.session.RegisterActiveDrawer(self)
	b.fireTopic(event.TopicDrawingStart)
	b.log.Debug("drawing started (%s)", b.state)
}

// endDrawing returns to idle, unregisters self and fires
// editable.drawing.end.
func (b *editorBase) endDrawing(self drawer) {
	b.state = StateIdle
	b.session.UnregisterActiveDrawer(self)
	b.fireTopic(event.TopicDrawingEnd)
}

// redraw asks the viewport to redraw the feature.
func (b *editorBase) redraw() {
	b.session.vp.Redraw(b.feature)
}

// onTouch routes a viewport tap to the pending handle.
func onTouch(d drawer, s *Session, ev *pointer.Event) {
	d.onPointerMove(ev)
	if d.Drawing() {
		s.pending.Click(ev)
	}
}
