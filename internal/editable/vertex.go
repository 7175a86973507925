package editable

import (
	"github.com/google/uuid"

	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/viewport"
)

// VertexHandle is the draggable handle of one ring position. It owns the
// midpoint handle between itself and its previous vertex.
type VertexHandle struct {
	id     string
	pos    *geo.Position
	ring   *geo.Ring
	editor *PathEditor
	middle *MidpointHandle
	vp     viewport.Viewport
}

// NewVertexHandle is the default VertexFactory.
func NewVertexHandle(ed *PathEditor, pos *geo.Position, ring *geo.Ring) *VertexHandle {
	return &VertexHandle{
		id:     uuid.NewString(),
		pos:    pos,
		ring:   ring,
		editor: ed,
	}
}

// ID returns a unique handle id.
func (v *VertexHandle) ID() string { return v.id }

// Position returns the ring position the handle edits.
func (v *VertexHandle) Position() *geo.Position { return v.pos }

// Ring returns the ring holding the position.
func (v *VertexHandle) Ring() *geo.Ring { return v.ring }

// Editor returns the owning editor.
func (v *VertexHandle) Editor() *PathEditor { return v.editor }

// Midpoint returns the midpoint handle owned by v, or nil.
func (v *VertexHandle) Midpoint() *MidpointHandle { return v.middle }

// Index returns the position's index in its ring, or -1 once deleted.
func (v *VertexHandle) Index() int { return v.ring.IndexOf(v.pos) }

// LastIndex returns the index of the last position of the ring.
func (v *VertexHandle) LastIndex() int { return v.ring.Len() - 1 }

// Previous returns the handle of the previous position. On closed rings
// the first vertex wraps to the last.
func (v *VertexHandle) Previous() *VertexHandle {
	if v.ring.Len() < 2 {
		return nil
	}
	i := v.Index()
	if i < 0 {
		return nil
	}
	prev := i - 1
	if i == 0 && v.editor.Closed() {
		prev = v.LastIndex()
	}
	return v.handleAt(prev)
}

// Next returns the handle of the next position. On closed rings the last
// vertex wraps to the first.
func (v *VertexHandle) Next() *VertexHandle {
	if v.ring.Len() < 2 {
		return nil
	}
	i := v.Index()
	if i < 0 {
		return nil
	}
	next := i + 1
	if i == v.LastIndex() && v.editor.Closed() {
		next = 0
	}
	return v.handleAt(next)
}

func (v *VertexHandle) handleAt(i int) *VertexHandle {
	pos := v.ring.At(i)
	if pos == nil {
		return nil
	}
	return v.editor.handles[pos]
}

// Delete removes the position from its ring, removes the handle and fires
// editable.vertex.deleted. The following vertex gets a fresh midpoint.
func (v *VertexHandle) Delete() {
	next := v.Next()
	if !v.ring.Remove(v.pos) {
		return
	}
	v.editor.layer.remove(v)
	v.editor.onVertexDeleted(v)
	if next != nil {
		next.resetMidpoint()
	}
}

// Anchor implements pointer.Target.
func (v *VertexHandle) Anchor() geo.Point {
	return v.editor.session.vp.Project(*v.pos)
}

// HitTest implements pointer.Target.
func (v *VertexHandle) HitTest(pt geo.Point) bool {
	s := v.editor.session
	return squareHit(v.Anchor(), pt, s.opts.vertexSize(s.vp.Touch()))
}

// ZIndex implements pointer.Target.
func (v *VertexHandle) ZIndex() int { return v.editor.session.opts.VertexZIndex }

// PointerDown fires editable.vertex.mousedown.
func (v *VertexHandle) PointerDown(ev *pointer.Event) {
	v.editor.fireVertex(event.TopicVertexMouseDown, v, ev)
}

// Click dispatches on modifiers and drawing state.
func (v *VertexHandle) Click(ev *pointer.Event) {
	v.editor.onVertexClick(v, ev)
}

// ContextMenu fires editable.vertex.contextmenu.
func (v *VertexHandle) ContextMenu(ev *pointer.Event) {
	v.editor.fireVertex(event.TopicVertexContextMenu, v, ev)
}

// DragStart implements pointer.Draggable.
func (v *VertexHandle) DragStart(*pointer.Event) {}

// Drag moves the position in place, so guides anchored on it follow, and
// updates both midpoints that depend on it.
func (v *VertexHandle) Drag(ev *pointer.Event) {
	v.pos.Set(ev.Position)
	v.editor.Refresh()
	if v.middle != nil {
		v.middle.Update()
	}
	if next := v.Next(); next != nil && next.middle != nil {
		next.middle.Update()
	}
	if v.vp != nil {
		v.vp.Invalidate()
	}
}

// DragEnd implements pointer.Draggable.
func (v *VertexHandle) DragEnd(*pointer.Event) {}

// Shape implements viewport.Overlay.
func (v *VertexHandle) Shape() (viewport.Shape, bool) {
	s := v.editor.session
	return viewport.Shape{
		Kind:    viewport.ShapeHandle,
		Class:   s.opts.VertexClass,
		At:      *v.pos,
		Size:    s.opts.vertexSize(s.vp.Touch()),
		Opacity: 1,
		ZIndex:  s.opts.VertexZIndex,
	}, true
}

// addMidpoint creates the midpoint towards previous unless v already has
// one.
func (v *VertexHandle) addMidpoint(previous *VertexHandle) {
	if previous == nil {
		previous = v.Previous()
	}
	if previous == nil || v.middle != nil {
		return
	}
	v.middle = v.editor.addMidpoint(previous, v, v.ring)
}

// resetMidpoint replaces the midpoint after the previous vertex changed.
func (v *VertexHandle) resetMidpoint() {
	if v.middle != nil {
		v.middle.Delete()
	}
	v.addMidpoint(nil)
}

func (v *VertexHandle) onAdd(vp viewport.Viewport) {
	v.vp = vp
	vp.Input().Register(v)
	vp.AddOverlay(v)

	if previous := v.Previous(); previous != nil {
		v.addMidpoint(previous)
	}
	if next := v.Next(); next != nil {
		next.resetMidpoint()
	}
}

func (v *VertexHandle) onRemove(vp viewport.Viewport) {
	if v.middle != nil {
		v.middle.Delete()
	}
	if v.editor.handles[v.pos] == v {
		delete(v.editor.handles, v.pos)
	}
	vp.Input().Unregister(v)
	vp.RemoveOverlay(v)
	v.vp = nil
}
