package editable

import (
	"fmt"

	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/logging"
	"github.com/dshills/geoedit/internal/viewport"
)

// Session coordinates editing on one viewport.
type Session struct {
	vp   viewport.Viewport
	opts Options
	log  *logging.Logger

	root     *Layer
	forward  *Guide
	backward *Guide
	pending  *PendingHandle

	drawer      drawer
	cancelMove  func()
	cancelTouch func()

	removeSub event.Subscription
}

// NewSession creates an editing session on vp.
func NewSession(vp viewport.Viewport, opts ...Option) *Session {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}

	s := &Session{
		vp:   vp,
		opts: o,
		log:  o.Logger.WithComponent("editable"),
	}
	s.root = newLayer(vp)
	s.root.attach()
	s.forward = newGuide(s.root, o.GuideClass)
	s.backward = newGuide(s.root, o.GuideClass)
	s.pending = newPendingHandle(s)
	s.removeSub = vp.OnLayerRemove(s.onLayerRemove)
	return s
}

// Configure applies options. Handle sizes, classes and tolerances apply to
// handles created afterwards.
func (s *Session) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(&s.opts)
	}
	if s.opts.Logger == nil {
		s.opts.Logger = logging.Nop()
	}
	s.log = s.opts.Logger.WithComponent("editable")
	s.forward.class = s.opts.GuideClass
	s.backward.class = s.opts.GuideClass
}

// Options returns the current configuration.
func (s *Session) Options() Options { return s.opts }

// Viewport returns the session's viewport.
func (s *Session) Viewport() viewport.Viewport { return s.vp }

// Root returns the root edit layer.
func (s *Session) Root() *Layer { return s.root }

// ForwardGuide returns the guide previewing appended segments.
func (s *Session) ForwardGuide() *Guide { return s.forward }

// BackwardGuide returns the guide previewing prepended or closing segments.
func (s *Session) BackwardGuide() *Guide { return s.backward }

// Pending returns the pending new-point handle.
func (s *Session) Pending() *PendingHandle { return s.pending }

// ActiveDrawer returns the editor currently drawing, or nil.
func (s *Session) ActiveDrawer() Editor {
	if s.drawer == nil {
		return nil
	}
	return s.drawer
}

// Close stops drawing and detaches the session from the viewport.
func (s *Session) Close() {
	s.StopDrawing()
	if s.removeSub != nil {
		s.removeSub.Cancel()
		s.removeSub = nil
	}
	s.root.detach()
}

// RegisterActiveDrawer makes ed the active drawer. A different active
// drawer is unregistered first, which cancels its drawing. Registering the
// active drawer again does nothing.
func (s *Session) RegisterActiveDrawer(ed Editor) {
	d, ok := ed.(drawer)
	if !ok || d == nil {
		return
	}
	if s.drawer == d {
		return
	}
	if s.drawer != nil {
		s.UnregisterActiveDrawer(s.drawer)
	}

	s.drawer = d
	input := s.vp.Input()
	s.cancelMove = input.OnMove(d.onPointerMove)
	if s.vp.Touch() {
		s.cancelTouch = input.OnClick(func(ev *pointer.Event) { onTouch(d, s, ev) })
	}
	s.root.add(s.pending)
	s.vp.SetDrawing(s.opts.DrawingClass, true)
	s.log.Debug("active drawer %s", d.Feature().ID())
}

// UnregisterActiveDrawer detaches the pending handle and, if ed (or the
// active drawer when ed is nil) is the active drawer, unsubscribes it,
// cancels its drawing and clears the drawing class.
func (s *Session) UnregisterActiveDrawer(ed Editor) {
	s.root.remove(s.pending)

	var d drawer
	if ed == nil {
		d = s.drawer
	} else if dd, ok := ed.(drawer); ok {
		d = dd
	}
	if d == nil || d != s.drawer {
		return
	}

	if s.cancelMove != nil {
		s.cancelMove()
		s.cancelMove = nil
	}
	if s.cancelTouch != nil {
		s.cancelTouch()
		s.cancelTouch = nil
	}
	s.drawer = nil
	if d.Drawing() {
		d.CancelDrawing()
	}
	s.vp.SetDrawing(s.opts.DrawingClass, false)
}

// StopDrawing unregisters the active drawer, if any.
func (s *Session) StopDrawing() {
	s.UnregisterActiveDrawer(nil)
}

// CreatePolyline creates a polyline and fires editable.created.
func (s *Session) CreatePolyline(coords ...geo.Position) *feature.Polyline {
	l := s.opts.PolylineFactory(coords)
	s.created(l)
	return l
}

// CreatePolygon creates a polygon and fires editable.created.
func (s *Session) CreatePolygon(coords ...geo.Position) *feature.Polygon {
	p := s.opts.PolygonFactory(coords)
	s.created(p)
	return p
}

// CreateMarker creates a marker and fires editable.created.
func (s *Session) CreateMarker(pos *geo.Position) *feature.Marker {
	m := s.opts.MarkerFactory(pos)
	s.created(m)
	return m
}

func (s *Session) created(l feature.Layer) {
	s.vp.Events().Fire(event.New(event.TopicCreated).WithLayer(l))
}

// StartPolyline creates an empty polyline, shows it, enables editing and
// starts drawing forward.
func (s *Session) StartPolyline() (*feature.Polyline, error) {
	l := s.CreatePolyline()
	s.vp.AddLayer(l)
	if err := s.startForward(l); err != nil {
		return nil, err
	}
	return l, nil
}

// StartPolygon creates an empty polygon, shows it, enables editing and
// starts drawing forward.
func (s *Session) StartPolygon() (*feature.Polygon, error) {
	p := s.CreatePolygon()
	s.vp.AddLayer(p)
	if err := s.startForward(p); err != nil {
		return nil, err
	}
	return p, nil
}

// StartMarker creates a marker at pos (the viewport centre when nil), shows
// it, enables editing and starts drawing.
func (s *Session) StartMarker(pos *geo.Position) (*feature.Marker, error) {
	if pos == nil {
		c := s.vp.Center()
		pos = &c
	}
	m := s.CreateMarker(pos)
	s.vp.AddLayer(m)
	ed, err := s.EnableEdit(m)
	if err != nil {
		return nil, err
	}
	ed.StartDrawing()
	return m, nil
}

// StartHole starts drawing a new hole on a polygon editor, seeded with pos
// when it is not nil.
func (s *Session) StartHole(ed Editor, pos *geo.Position) error {
	pe, ok := ed.(*PathEditor)
	if !ok {
		return ErrWrongKind
	}
	return pe.StartHole(pos)
}

// ExtendMulti adds a new empty member to m, enables editing on it and
// starts drawing forward.
func (s *Session) ExtendMulti(m *feature.Multi) (feature.Layer, error) {
	if m == nil {
		return nil, ErrNilLayer
	}

	var l feature.Layer
	switch m.MemberKind() {
	case feature.KindPolygon:
		l = s.CreatePolygon()
	case feature.KindPolyline:
		l = s.CreatePolyline()
	default:
		return nil, fmt.Errorf("extend %s group: %w", m.MemberKind(), ErrWrongKind)
	}
	if err := m.Add(l); err != nil {
		return nil, err
	}
	if err := s.startForward(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Session) startForward(l feature.Layer) error {
	ed, err := s.EnableEdit(l)
	if err != nil {
		return err
	}
	if f, ok := ed.(interface{ StartDrawingForward() }); ok {
		f.StartDrawingForward()
	} else {
		ed.StartDrawing()
	}
	return nil
}

// EditorFor returns the editor installed on l, or nil.
func EditorFor(l feature.Layer) Editor {
	if l == nil {
		return nil
	}
	ed, _ := l.Editor().(Editor)
	return ed
}

// EnableEdit creates the editor for l if it has none, enables it and
// returns it.
func (s *Session) EnableEdit(l feature.Layer) (Editor, error) {
	if l == nil {
		return nil, ErrNilLayer
	}
	ed := EditorFor(l)
	if ed == nil {
		var err error
		ed, err = s.newEditor(l)
		if err != nil {
			return nil, err
		}
		l.SetEditor(ed)
	}
	ed.Enable()
	return ed, nil
}

// DisableEdit disables and removes the editor of l, if any.
func (s *Session) DisableEdit(l feature.Layer) {
	ed := EditorFor(l)
	if ed == nil {
		return
	}
	ed.Disable()
	l.SetEditor(nil)
}

// ToggleEdit disables editing on l if it has an editor, enables it
// otherwise.
func (s *Session) ToggleEdit(l feature.Layer) error {
	if EditorFor(l) != nil {
		s.DisableEdit(l)
		return nil
	}
	_, err := s.EnableEdit(l)
	return err
}

// EditEnabled reports whether l has an enabled editor.
func (s *Session) EditEnabled(l feature.Layer) bool {
	return feature.EditEnabled(l)
}

// EnableEditMulti enables editing on every member of m.
func (s *Session) EnableEditMulti(m *feature.Multi) error {
	if m == nil {
		return ErrNilLayer
	}
	var firstErr error
	m.Each(func(l feature.Layer) {
		if _, err := s.EnableEdit(l); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}

// DisableEditMulti disables editing on every member of m.
func (s *Session) DisableEditMulti(m *feature.Multi) {
	if m == nil {
		return
	}
	m.Each(s.DisableEdit)
}

// ToggleEditMulti disables every member when any member has an editor,
// and enables every member otherwise.
func (s *Session) ToggleEditMulti(m *feature.Multi) error {
	if m == nil {
		return ErrNilLayer
	}
	editing := false
	m.Each(func(l feature.Layer) {
		if EditorFor(l) != nil {
			editing = true
		}
	})
	if editing {
		s.DisableEditMulti(m)
		return nil
	}
	return s.EnableEditMulti(m)
}

func (s *Session) newEditor(l feature.Layer) (Editor, error) {
	var f EditorFactory
	switch l.Kind() {
	case feature.KindMarker:
		f = s.opts.MarkerEditorFactory
	case feature.KindPolyline:
		f = s.opts.PolylineEditorFactory
	case feature.KindPolygon:
		f = s.opts.PolygonEditorFactory
	}
	if f == nil {
		return nil, fmt.Errorf("edit %s %s: %w", l.Kind(), l.ID(), ErrWrongKind)
	}
	return f(s, l)
}

// onLayerRemove disables editing on features removed from the viewport.
func (s *Session) onLayerRemove(l feature.Layer) {
	if m, ok := l.(*feature.Multi); ok {
		s.DisableEditMulti(m)
		return
	}
	s.DisableEdit(l)
}
