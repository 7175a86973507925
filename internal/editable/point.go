package editable

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/viewport"
)

// PointEditor edits a marker. While drawing, the marker follows the
// pointer and the first confirmed point finishes drawing. While enabled,
// the marker can be dragged.
type PointEditor struct {
	editorBase
	marker *feature.Marker
	handle *markerHandle
}

// NewPointEditor creates an editor for m.
func NewPointEditor(s *Session, m *feature.Marker) *PointEditor {
	ed := &PointEditor{
		editorBase: newEditorBase(s, m),
		marker:     m,
	}
	ed.handle = &markerHandle{id: uuid.NewString(), editor: ed}
	return ed
}

func newMarkerEditor(s *Session, l feature.Layer) (Editor, error) {
	m, ok := l.(*feature.Marker)
	if !ok {
		return nil, fmt.Errorf("marker editor for %s: %w", l.Kind(), ErrWrongKind)
	}
	return NewPointEditor(s, m), nil
}

// Marker returns the edited marker.
func (ed *PointEditor) Marker() *feature.Marker { return ed.marker }

// Enable shows the drag handle and fires editable.enable.
func (ed *PointEditor) Enable() {
	if ed.enabled {
		return
	}
	ed.attach()
	ed.layer.add(ed.handle)
}

// Disable removes the drag handle, fires editable.disable and cancels
// drawing.
func (ed *PointEditor) Disable() {
	ed.detach()
	if ed.Drawing() {
		ed.CancelDrawing()
	}
}

// StartDrawing makes the marker follow the pointer until a point is
// confirmed.
func (ed *PointEditor) StartDrawing() {
	ed.beginDrawing(ed)
}

// FinishDrawing completes drawing.
func (ed *PointEditor) FinishDrawing() {
	if !ed.Drawing() {
		return
	}
	ed.endDrawing(ed)
	ed.fireTopic(event.TopicDrawingFinish)
}

// CancelDrawing aborts drawing.
func (ed *PointEditor) CancelDrawing() {
	if !ed.Drawing() {
		return
	}
	ed.endDrawing(ed)
	ed.fireTopic(event.TopicDrawingCancel)
}

// Refresh redraws the marker and fires editable.editing.
func (ed *PointEditor) Refresh() {
	ed.redraw()
	ed.fireTopic(event.TopicEditing)
}

func (ed *PointEditor) onPointerMove(ev *pointer.Event) {
	if !ed.Drawing() {
		return
	}
	ed.session.pending.SetPosition(ev.Position)
	ed.marker.SetLatLng(ev.Position)
	ed.redraw()
}

func (ed *PointEditor) onNewPointConfirmed(ev *pointer.Event) bool {
	ed.marker.SetLatLng(ev.Position)
	ed.fire(event.New(event.TopicDrawingClick).
		WithPosition(ed.marker.LatLng()).
		WithPointer(ev))
	ed.FinishDrawing()
	return true
}

// markerHandle makes the marker draggable while editing is enabled.
type markerHandle struct {
	id     string
	editor *PointEditor
}

func (h *markerHandle) ID() string { return h.id }

// Position returns the marker position.
func (h *markerHandle) Position() *geo.Position { return h.editor.marker.LatLng() }

func (h *markerHandle) Anchor() geo.Point {
	return h.editor.session.vp.Project(*h.editor.marker.LatLng())
}

// HitTest ignores the pointer while drawing so that clicks reach the
// pending handle under the marker.
func (h *markerHandle) HitTest(pt geo.Point) bool {
	if h.editor.Drawing() {
		return false
	}
	s := h.editor.session
	return squareHit(h.Anchor(), pt, s.opts.vertexSize(s.vp.Touch()))
}

func (h *markerHandle) ZIndex() int { return h.editor.session.opts.VertexZIndex }

// DragStart implements pointer.Draggable.
func (h *markerHandle) DragStart(*pointer.Event) {}

func (h *markerHandle) Drag(ev *pointer.Event) {
	h.editor.marker.SetLatLng(ev.Position)
	h.editor.Refresh()
}

// DragEnd implements pointer.Draggable.
func (h *markerHandle) DragEnd(*pointer.Event) {}

func (h *markerHandle) onAdd(vp viewport.Viewport) {
	vp.Input().Register(h)
}

func (h *markerHandle) onRemove(vp viewport.Viewport) {
	vp.Input().Unregister(h)
}
