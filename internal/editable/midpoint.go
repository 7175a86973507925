package editable

import (
	"github.com/google/uuid"

	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/viewport"
)

// MidpointHandle sits halfway between two adjacent vertices. Pressing it
// inserts a vertex there and hands the drag over to the new vertex.
type MidpointHandle struct {
	id     string
	left   *VertexHandle
	right  *VertexHandle
	ring   *geo.Ring
	editor *PathEditor
	at     geo.Position
	vp     viewport.Viewport
}

// NewMidpointHandle is the default MiddleFactory.
func NewMidpointHandle(ed *PathEditor, left, right *VertexHandle, ring *geo.Ring) *MidpointHandle {
	m := &MidpointHandle{
		id:     uuid.NewString(),
		left:   left,
		right:  right,
		ring:   ring,
		editor: ed,
	}
	m.Update()
	return m
}

// ID returns a unique handle id.
func (m *MidpointHandle) ID() string { return m.id }

// Left returns the vertex before the midpoint.
func (m *MidpointHandle) Left() *VertexHandle { return m.left }

// Right returns the vertex after the midpoint, which owns it.
func (m *MidpointHandle) Right() *VertexHandle { return m.right }

// Position returns the midpoint computed by the last Update.
func (m *MidpointHandle) Position() geo.Position { return m.at }

// Update recomputes the midpoint after an endpoint moved.
func (m *MidpointHandle) Update() {
	m.at = geo.Midpoint(*m.left.pos, *m.right.pos)
	if m.vp != nil {
		m.vp.Invalidate()
	}
}

// Index returns the ring index a new vertex is inserted at.
func (m *MidpointHandle) Index() int { return m.ring.IndexOf(m.right.pos) }

// Visible reports whether the segment is long enough on screen to show
// the handle.
func (m *MidpointHandle) Visible() bool {
	s := m.editor.session
	l := s.vp.Project(*m.left.pos)
	r := s.vp.Project(*m.right.pos)
	return l.Distance(r) >= 3*s.opts.vertexSize(s.vp.Touch())
}

// Delete removes the handle.
func (m *MidpointHandle) Delete() {
	m.editor.layer.remove(m)
}

// Anchor implements pointer.Target.
func (m *MidpointHandle) Anchor() geo.Point {
	return m.editor.session.vp.Project(m.Position())
}

// HitTest implements pointer.Target.
func (m *MidpointHandle) HitTest(pt geo.Point) bool {
	s := m.editor.session
	return squareHit(m.Anchor(), pt, s.opts.vertexSize(s.vp.Touch()))
}

// ZIndex implements pointer.Target.
func (m *MidpointHandle) ZIndex() int { return m.editor.session.opts.MiddleZIndex }

// PointerDown inserts a vertex at the midpoint and transfers the ongoing
// gesture to it.
func (m *MidpointHandle) PointerDown(ev *pointer.Event) {
	ed := m.editor
	ed.fireMidpoint(m, ev)

	mid := m.Position()
	pos := geo.NewPosition(mid.Lat, mid.Lng)
	m.ring.Insert(m.Index(), pos)
	ed.Refresh()
	v := ed.addVertex(pos, m.ring)

	ed.session.vp.Input().Capture(v, ev)
	m.Delete()
}

// Shape implements viewport.Overlay.
func (m *MidpointHandle) Shape() (viewport.Shape, bool) {
	s := m.editor.session
	opacity := s.opts.MiddleOpacity
	if !m.Visible() {
		opacity = 0
	}
	return viewport.Shape{
		Kind:    viewport.ShapeHandle,
		Class:   s.opts.MiddleClass,
		At:      m.Position(),
		Size:    s.opts.vertexSize(s.vp.Touch()),
		Opacity: opacity,
		ZIndex:  s.opts.MiddleZIndex,
	}, true
}

func (m *MidpointHandle) onAdd(vp viewport.Viewport) {
	m.vp = vp
	vp.Input().Register(m)
	vp.AddOverlay(m)
}

func (m *MidpointHandle) onRemove(vp viewport.Viewport) {
	if m.right != nil && m.right.middle == m {
		m.right.middle = nil
	}
	vp.Input().Unregister(m)
	vp.RemoveOverlay(m)
	m.vp = nil
}
