package editable

import (
	"fmt"

	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/event/topic"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/hittest"
	"github.com/dshills/geoedit/internal/input/pointer"
)

// pathKind holds the behavior that differs between polylines and polygons.
type pathKind struct {
	name string

	// closed rings wrap adjacency from the last position to the first.
	closed bool

	// minVertex is the smallest ring a plain click may delete from, and the
	// number of drawn positions needed before closing on the first vertex.
	minVertex int

	// ringGroups returns every ring that gets vertex handles.
	ringGroups func(ed *PathEditor) []*geo.Ring

	// canDelete reports whether a plain click may delete v.
	canDelete func(ed *PathEditor, v *VertexHandle) bool

	// validNewPoint reports whether p may be added to the drawn ring.
	validNewPoint func(ed *PathEditor, p geo.Position) bool

	// afterDelete runs after a vertex was removed from its ring.
	afterDelete func(ed *PathEditor, v *VertexHandle)
}

var lineKind = &pathKind{
	name:      "polyline",
	closed:    false,
	minVertex: 2,
	ringGroups: func(ed *PathEditor) []*geo.Ring {
		return []*geo.Ring{ed.outer()}
	},
	canDelete: func(ed *PathEditor, v *VertexHandle) bool {
		return v.ring.Len() > 2
	},
	validNewPoint: func(*PathEditor, geo.Position) bool { return true },
	afterDelete:   func(*PathEditor, *VertexHandle) {},
}

var polygonKind = &pathKind{
	name:      "polygon",
	closed:    true,
	minVertex: 3,
	ringGroups: func(ed *PathEditor) []*geo.Ring {
		return ed.polygon.Rings()
	},
	canDelete: func(ed *PathEditor, v *VertexHandle) bool {
		if v.ring != ed.outer() {
			return true
		}
		return v.ring.Len() > 3
	},
	validNewPoint: func(ed *PathEditor, p geo.Position) bool {
		if ed.drawn == ed.outer() {
			return true
		}
		return ed.outerContains(p)
	},
	afterDelete: func(ed *PathEditor, v *VertexHandle) {
		if v.ring.Len() == 0 && v.ring != ed.outer() {
			ed.polygon.RemoveHole(v.ring)
		}
	},
}

// PathEditor edits a polyline or a polygon.
type PathEditor struct {
	editorBase
	kind *pathKind

	polyline *feature.Polyline
	polygon  *feature.Polygon

	// drawn is the ring receiving new points while drawing.
	drawn *geo.Ring

	// handles maps each position to its vertex handle.
	handles map[*geo.Position]*VertexHandle
}

// NewPolylineEditor creates an editor for l.
func NewPolylineEditor(s *Session, l *feature.Polyline) *PathEditor {
	return &PathEditor{
		editorBase: newEditorBase(s, l),
		kind:       lineKind,
		polyline:   l,
		handles:    make(map[*geo.Position]*VertexHandle),
	}
}

// NewPolygonEditor creates an editor for p.
func NewPolygonEditor(s *Session, p *feature.Polygon) *PathEditor {
	return &PathEditor{
		editorBase: newEditorBase(s, p),
		kind:       polygonKind,
		polygon:    p,
		handles:    make(map[*geo.Position]*VertexHandle),
	}
}

func newPolylineEditor(s *Session, l feature.Layer) (Editor, error) {
	pl, ok := l.(*feature.Polyline)
	if !ok {
		return nil, fmt.Errorf("polyline editor for %s: %w", l.Kind(), ErrWrongKind)
	}
	return NewPolylineEditor(s, pl), nil
}

func newPolygonEditor(s *Session, l feature.Layer) (Editor, error) {
	pg, ok := l.(*feature.Polygon)
	if !ok {
		return nil, fmt.Errorf("polygon editor for %s: %w", l.Kind(), ErrWrongKind)
	}
	return NewPolygonEditor(s, pg), nil
}

// Closed reports whether the edited rings are implicitly closed.
func (ed *PathEditor) Closed() bool { return ed.kind.closed }

// MinVertex returns the minimum vertex count of the outer ring.
func (ed *PathEditor) MinVertex() int { return ed.kind.minVertex }

// DrawnRing returns the ring receiving new points, or nil when idle.
func (ed *PathEditor) DrawnRing() *geo.Ring { return ed.drawn }

// Handle returns the vertex handle of pos, or nil.
func (ed *PathEditor) Handle(pos *geo.Position) *VertexHandle { return ed.handles[pos] }

// HandleCount returns the number of live vertex handles.
func (ed *PathEditor) HandleCount() int { return len(ed.handles) }

// outer returns the polyline ring or the polygon outer ring.
func (ed *PathEditor) outer() *geo.Ring {
	if ed.polygon != nil {
		return ed.polygon.Outer()
	}
	return ed.polyline.Ring()
}

// Enable shows one vertex handle per position of every ring.
func (ed *PathEditor) Enable() {
	if ed.enabled {
		return
	}
	ed.attach()
	ed.populate()
}

// Disable removes every handle, fires editable.disable and cancels drawing.
func (ed *PathEditor) Disable() {
	ed.detach()
	if ed.Drawing() {
		ed.CancelDrawing()
	}
}

// Reset removes every handle and creates them again from the rings.
func (ed *PathEditor) Reset() {
	ed.layer.clear()
	ed.populate()
}

func (ed *PathEditor) populate() {
	for _, ring := range ed.kind.ringGroups(ed) {
		for _, pos := range ring.Positions() {
			ed.addVertex(pos, ring)
		}
	}
}

// addVertex creates and shows the handle for pos.
func (ed *PathEditor) addVertex(pos *geo.Position, ring *geo.Ring) *VertexHandle {
	if old := ed.handles[pos]; old != nil {
		ed.layer.remove(old)
	}
	v := ed.session.opts.VertexFactory(ed, pos, ring)
	ed.handles[pos] = v
	ed.layer.add(v)
	return v
}

// addMidpoint creates and shows the handle between left and right.
func (ed *PathEditor) addMidpoint(left, right *VertexHandle, ring *geo.Ring) *MidpointHandle {
	m := ed.session.opts.MiddleFactory(ed, left, right, ring)
	ed.layer.add(m)
	return m
}

// Refresh redraws the feature and fires editable.editing.
func (ed *PathEditor) Refresh() {
	ed.redraw()
	ed.fireTopic(event.TopicEditing)
}

// StartDrawing enters drawing, on the outer ring unless a ring was already
// chosen.
func (ed *PathEditor) StartDrawing() {
	if ed.drawn == nil {
		ed.drawn = ed.outer()
	}
	ed.beginDrawing(ed)
}

// StartDrawingForward starts appending points and shows the forward guide.
// Polygons also show the backward guide as the closing edge.
func (ed *PathEditor) StartDrawingForward() {
	ed.StartDrawing()
	ed.session.forward.Attach()
	if ed.kind.closed {
		ed.session.backward.Attach()
	}
}

// StartDrawingBackward starts prepending points. Polylines only.
func (ed *PathEditor) StartDrawingBackward() error {
	if ed.kind.closed {
		return ErrWrongKind
	}
	ed.state = StateDrawingBackward
	ed.StartDrawing()
	ed.session.backward.Attach()
	return nil
}

// ContinueForward resumes appending after the last position. Polylines only.
func (ed *PathEditor) ContinueForward() error {
	if ed.kind.closed {
		return ErrWrongKind
	}
	if !ed.enabled {
		return ErrNotEnabled
	}
	ed.session.forward.Anchor(ed.outer().Last())
	ed.StartDrawingForward()
	return nil
}

// ContinueBackward resumes prepending before the first position.
// Polylines only.
func (ed *PathEditor) ContinueBackward() error {
	if ed.kind.closed {
		return ErrWrongKind
	}
	if !ed.enabled {
		return ErrNotEnabled
	}
	ed.session.backward.Anchor(ed.outer().First())
	return ed.StartDrawingBackward()
}

// StartHole adds an empty hole and draws it forward, seeded with pos when
// not nil. Polygons only.
func (ed *PathEditor) StartHole(pos *geo.Position) error {
	if ed.polygon == nil {
		return ErrWrongKind
	}
	if !ed.enabled {
		return ErrNotEnabled
	}
	hole := geo.NewRing()
	ed.polygon.AddHole(hole)
	ed.drawn = hole
	ed.StartDrawingForward()
	if pos != nil {
		ed.newPointForward(pos)
	}
	return nil
}

// FinishDrawing completes drawing.
func (ed *PathEditor) FinishDrawing() {
	if !ed.Drawing() {
		return
	}
	ed.endPathDrawing()
	ed.fireTopic(event.TopicDrawingFinish)
}

// CancelDrawing aborts drawing.
func (ed *PathEditor) CancelDrawing() {
	if !ed.Drawing() {
		return
	}
	ed.endPathDrawing()
	ed.fireTopic(event.TopicDrawingCancel)
}

func (ed *PathEditor) endPathDrawing() {
	ed.endDrawing(ed)
	ed.session.forward.Detach()
	ed.session.backward.Detach()
	ed.drawn = nil
}

func (ed *PathEditor) onPointerMove(ev *pointer.Event) {
	if !ed.Drawing() {
		return
	}
	ed.session.pending.SetPosition(ev.Position)
	ed.session.forward.Move(ev.Position)
	ed.session.backward.Move(ev.Position)
}

func (ed *PathEditor) onNewPointConfirmed(ev *pointer.Event) bool {
	if !ed.Drawing() {
		return false
	}
	pos := geo.NewPosition(ev.Position.Lat, ev.Position.Lng)
	if !ed.kind.validNewPoint(ed, *pos) {
		ed.log.Debug("refused new point %s", pos)
		return false
	}
	ed.fire(event.New(event.TopicDrawingClick).WithPosition(pos).WithPointer(ev))
	if !ed.Drawing() {
		// A listener ended drawing.
		return false
	}

	if ed.state == StateDrawingForward {
		ed.newPointForward(pos)
	} else {
		ed.newPointBackward(pos)
	}
	return true
}

func (ed *PathEditor) addPosition(pos *geo.Position) {
	if ed.state == StateDrawingForward {
		ed.drawn.Append(pos)
	} else {
		ed.drawn.Prepend(pos)
	}
	ed.Refresh()
	ed.addVertex(pos, ed.drawn)
}

func (ed *PathEditor) newPointForward(pos *geo.Position) {
	ed.addPosition(pos)
	ed.session.forward.Anchor(pos)
	if !ed.session.backward.Anchored() {
		ed.session.backward.Anchor(pos)
	}
}

func (ed *PathEditor) newPointBackward(pos *geo.Position) {
	ed.addPosition(pos)
	ed.session.backward.Anchor(pos)
}

// outerContains reports whether p hits the outer boundary, counting the
// border tolerance as inside.
func (ed *PathEditor) outerContains(p geo.Position) bool {
	vp := ed.session.vp
	coords := ed.outer().Coords()
	ring := make([]geo.Point, len(coords))
	for i, c := range coords {
		ring[i] = vp.Project(c)
	}
	tol := ed.session.opts.tolerance(vp.Touch())
	return hittest.PolygonContains(ed.session.opts.Tester, vp.Project(p), ring, tol)
}

// onVertexClick dispatches a click on v.
func (ed *PathEditor) onVertexClick(v *VertexHandle, ev *pointer.Event) {
	index := v.Index()
	switch {
	case ev.Modifiers.HasCtrl():
		ed.fireVertex(event.TopicVertexCtrlClick, v, ev)
	case ev.Modifiers.HasAlt():
		ed.fireVertex(event.TopicVertexAltClick, v, ev)
	case ev.Modifiers.HasShift():
		ed.fireVertex(event.TopicVertexShiftClick, v, ev)
	case index >= 1 && index == v.LastIndex() && ed.state == StateDrawingForward:
		ed.FinishDrawing()
	case index == 0 && ed.state == StateDrawingBackward && ed.drawn.Len() >= ed.kind.minVertex:
		ed.FinishDrawing()
	case index == 0 && ed.state == StateDrawingForward && ed.drawn.Len() >= ed.kind.minVertex && ed.kind.closed:
		ed.FinishDrawing()
	default:
		ed.onVertexRawClick(v)
	}
}

func (ed *PathEditor) onVertexRawClick(v *VertexHandle) {
	if !ed.kind.canDelete(ed, v) {
		ed.log.Debug("refused to delete vertex %d of %d", v.Index(), v.ring.Len())
		return
	}
	v.Delete()
	ed.Refresh()
}

func (ed *PathEditor) onVertexDeleted(v *VertexHandle) {
	ed.fire(event.New(event.TopicVertexDeleted).WithVertex(v).WithPosition(v.pos))
	ed.kind.afterDelete(ed, v)
}

func (ed *PathEditor) fireVertex(t topic.Topic, v *VertexHandle, ev *pointer.Event) *event.Event {
	return ed.fire(event.New(t).WithVertex(v).WithPosition(v.pos).WithPointer(ev))
}

func (ed *PathEditor) fireMidpoint(m *MidpointHandle, ev *pointer.Event) *event.Event {
	pos := m.Position()
	return ed.fire(event.New(event.TopicMiddleMarkerMouseDown).WithMiddle(m).WithPosition(&pos).WithPointer(ev))
}
