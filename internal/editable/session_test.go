package editable

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/logging"
)

func TestRegisterSwapsActiveDrawer(t *testing.T) {
	s, vp := newTestSession(t)
	line, _ := s.StartPolyline()
	lineRec := record(line.Events())

	poly, _ := s.StartPolygon()

	lineEd := EditorFor(line)
	if lineEd.Drawing() {
		t.Error("previous drawer still drawing")
	}
	if lineRec.count("editable.drawing.cancel") != 1 {
		t.Errorf("previous drawer cancel fired %d times", lineRec.count("editable.drawing.cancel"))
	}
	if s.ActiveDrawer() != EditorFor(poly) {
		t.Error("active drawer is not the polygon editor")
	}
	if !vp.HasClass(s.Options().DrawingClass) {
		t.Error("drawing class cleared by the swap")
	}
	if !s.Root().contains(s.Pending()) {
		t.Error("pending handle not attached")
	}
}

func TestRegisterSameDrawerIsNoop(t *testing.T) {
	s, vp := newTestSession(t)
	rec := record(vp.Events())
	l, _ := s.StartPolyline()
	ed := EditorFor(l)

	s.RegisterActiveDrawer(ed)
	ed.StartDrawing()

	if rec.count("editable.drawing.cancel") != 0 {
		t.Error("re-registering cancelled drawing")
	}
	if !ed.Drawing() || s.ActiveDrawer() != ed {
		t.Error("drawer lost")
	}

	clicks := 0
	l.On(string(event.TopicDrawingClick), func(*event.Event) { clicks++ })
	vp.Click(at(0, 0), pointer.ModNone)
	if clicks != 1 || l.Ring().Len() != 1 {
		t.Errorf("clicks = %d, ring len = %d", clicks, l.Ring().Len())
	}
}

func TestUnregisterWithoutDrawer(t *testing.T) {
	s, vp := newTestSession(t)

	s.StopDrawing()
	s.UnregisterActiveDrawer(nil)

	if s.ActiveDrawer() != nil || vp.HasClass(s.Options().DrawingClass) {
		t.Error("unexpected drawer state")
	}
}

func TestUnregisterOtherEditorKeepsDrawer(t *testing.T) {
	s, _ := newTestSession(t)
	l, _ := s.StartPolyline()
	other, _ := s.EnableEdit(feature.NewPolyline(at(0, 0), at(0, 1)))

	s.UnregisterActiveDrawer(other)

	if s.ActiveDrawer() != EditorFor(l) {
		t.Error("unregistering another editor removed the active drawer")
	}
}

func TestCreateFiresCreated(t *testing.T) {
	s, vp := newTestSession(t)
	rec := record(vp.Events())

	l := s.CreatePolyline(at(0, 0), at(1, 1))
	p := s.CreatePolygon()
	m := s.CreateMarker(geo.NewPosition(1, 2))

	if rec.count("editable.created") != 3 {
		t.Fatalf("created fired %d times", rec.count("editable.created"))
	}
	ids := []string{l.ID(), p.ID(), m.ID()}
	for i, ev := range rec.events {
		if ev.LayerID() != ids[i] {
			t.Errorf("created[%d] layer = %s, want %s", i, ev.LayerID(), ids[i])
		}
	}
	if l.Ring().Len() != 2 || !m.LatLng().Equal(at(1, 2)) {
		t.Error("factories ignored their input")
	}
	if EditorFor(l) != nil {
		t.Error("creation must not enable editing")
	}
}

func TestEventsForwardedInOrder(t *testing.T) {
	s, vp := newTestSession(t)
	group := feature.NewMulti(feature.KindPolygon)
	p := feature.NewPolygon(at(0, 0), at(0, 1), at(1, 1))
	if err := group.Add(p); err != nil {
		t.Fatal(err)
	}

	var order []string
	var seen []*event.Event
	listen := func(name string, em *event.Emitter) {
		em.Listen(string(event.TopicEnable), func(ev *event.Event) {
			order = append(order, name)
			seen = append(seen, ev)
		})
	}
	listen("feature", p.Events())
	listen("group", group.Events())
	listen("viewport", vp.Events())

	if _, err := s.EnableEdit(p); err != nil {
		t.Fatal(err)
	}

	if strings.Join(order, ",") != "feature,group,viewport" {
		t.Fatalf("order = %v", order)
	}
	if seen[0] != seen[1] || seen[1] != seen[2] {
		t.Error("listeners received different event values")
	}
	if seen[0].Layer != feature.Layer(p) {
		t.Error("event does not carry the feature")
	}
}

func TestEnableIsIdempotent(t *testing.T) {
	s, vp := newTestSession(t)
	rec := record(vp.Events())
	l := feature.NewPolyline(at(0, 0), at(0, 1))

	ed, _ := s.EnableEdit(l)
	again, _ := s.EnableEdit(l)

	if ed != again {
		t.Error("EnableEdit created a second editor")
	}
	if rec.count("editable.enable") != 1 {
		t.Errorf("enable fired %d times", rec.count("editable.enable"))
	}
	if v, _ := handleCounts(pathEditor(t, ed)); v != 2 {
		t.Errorf("vertex handles = %d, want 2", v)
	}
}

func TestToggleEdit(t *testing.T) {
	s, _ := newTestSession(t)
	l := feature.NewPolyline(at(0, 0), at(0, 1))

	if err := s.ToggleEdit(l); err != nil {
		t.Fatal(err)
	}
	if !s.EditEnabled(l) {
		t.Fatal("toggle did not enable")
	}
	if err := s.ToggleEdit(l); err != nil {
		t.Fatal(err)
	}
	if s.EditEnabled(l) || EditorFor(l) != nil {
		t.Fatal("toggle did not disable")
	}
}

func TestToggleEditMulti(t *testing.T) {
	s, _ := newTestSession(t)
	group := feature.NewMulti(feature.KindPolyline)
	a := feature.NewPolyline(at(0, 0), at(0, 1))
	b := feature.NewPolyline(at(1, 0), at(1, 1))
	_ = group.Add(a)
	_ = group.Add(b)

	// One member editing means the whole group toggles off.
	_, _ = s.EnableEdit(a)
	if err := s.ToggleEditMulti(group); err != nil {
		t.Fatal(err)
	}
	if EditorFor(a) != nil || EditorFor(b) != nil {
		t.Fatal("toggle did not disable every member")
	}

	if err := s.ToggleEditMulti(group); err != nil {
		t.Fatal(err)
	}
	if !s.EditEnabled(a) || !s.EditEnabled(b) {
		t.Fatal("toggle did not enable every member")
	}
}

func TestExtendMulti(t *testing.T) {
	s, vp := newTestSession(t)
	group := feature.NewMulti(feature.KindPolygon)
	_ = group.Add(feature.NewPolygon(at(0, 0), at(0, 1), at(1, 1)))

	l, err := s.ExtendMulti(group)
	if err != nil {
		t.Fatalf("ExtendMulti() error = %v", err)
	}
	if group.Len() != 2 || l.Group() != group {
		t.Error("new member not added to the group")
	}
	ed := EditorFor(l)
	if ed == nil || ed.State() != StateDrawingForward {
		t.Fatal("new member is not drawing")
	}

	for _, c := range []geo.Position{at(2, 2), at(2, 3), at(3, 3), at(2, 2)} {
		vp.Click(c, pointer.ModNone)
	}
	if got := l.(*feature.Polygon).Outer().Len(); got != 3 {
		t.Errorf("outer len = %d, want 3", got)
	}

	if _, err := s.ExtendMulti(feature.NewMulti(feature.KindMarker)); !errors.Is(err, ErrWrongKind) {
		t.Errorf("marker group error = %v, want ErrWrongKind", err)
	}
	if _, err := s.ExtendMulti(nil); !errors.Is(err, ErrNilLayer) {
		t.Errorf("nil group error = %v, want ErrNilLayer", err)
	}
}

func TestLayerRemovalDisablesEditing(t *testing.T) {
	s, vp := newTestSession(t)
	l, _ := s.StartPolyline()
	vp.Click(at(0, 0), pointer.ModNone)

	vp.RemoveLayer(l)

	if EditorFor(l) != nil {
		t.Error("editor survived removal from the viewport")
	}
	if s.ActiveDrawer() != nil {
		t.Error("removed feature still drawing")
	}
}

func TestEnableEditErrors(t *testing.T) {
	s, _ := newTestSession(t, WithEditorFactory(feature.KindPolyline, nil))

	if _, err := s.EnableEdit(nil); !errors.Is(err, ErrNilLayer) {
		t.Errorf("nil layer error = %v", err)
	}
	if _, err := s.EnableEdit(feature.NewPolyline()); !errors.Is(err, ErrWrongKind) {
		t.Errorf("missing factory error = %v", err)
	}
	if _, err := s.EnableEdit(feature.NewMulti(feature.KindPolygon)); !errors.Is(err, ErrWrongKind) {
		t.Errorf("multi error = %v", err)
	}
	if _, err := newPolygonEditor(s, feature.NewPolyline()); !errors.Is(err, ErrWrongKind) {
		t.Errorf("polygon factory on a polyline error = %v", err)
	}
}

func TestCustomHandleFactories(t *testing.T) {
	var vertices, middles int
	s, _ := newTestSession(t,
		WithVertexFactory(func(ed *PathEditor, pos *geo.Position, ring *geo.Ring) *VertexHandle {
			vertices++
			return NewVertexHandle(ed, pos, ring)
		}),
		WithMiddleFactory(func(ed *PathEditor, left, right *VertexHandle, ring *geo.Ring) *MidpointHandle {
			middles++
			return NewMidpointHandle(ed, left, right, ring)
		}),
	)

	if _, err := s.EnableEdit(feature.NewPolyline(at(0, 0), at(0, 1), at(0, 2))); err != nil {
		t.Fatal(err)
	}
	if vertices != 3 || middles != 2 {
		t.Errorf("factories called %d/%d times, want 3/2", vertices, middles)
	}
}

func TestHandleSizeFollowsDevice(t *testing.T) {
	s, vp := newTestSession(t, WithVertexSize(6, 30))
	l := feature.NewPolyline(at(0, 0), at(0, 1))
	edit, _ := s.EnableEdit(l)
	v := pathEditor(t, edit).Handle(l.Ring().First())

	near := geo.Point{X: 10, Y: 0}
	if v.HitTest(near) {
		t.Error("pointer handle too large")
	}
	vp.SetTouch(true)
	if !v.HitTest(near) {
		t.Error("touch handle too small")
	}
	shape, _ := v.Shape()
	if shape.Size != 30 || shape.Class != "editable-vertex" {
		t.Errorf("shape = %+v", shape)
	}
}

func TestSessionLogsRefusals(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatText, Output: &buf})
	s, vp := newTestSession(t, WithLogger(log))

	if _, err := s.EnableEdit(feature.NewPolyline(at(0, 0), at(0, 1))); err != nil {
		t.Fatal(err)
	}
	vp.Click(at(0, 0), pointer.ModNone)

	out := buf.String()
	if !strings.Contains(out, "refused to delete vertex") || !strings.Contains(out, "component=editable") {
		t.Errorf("log = %q", out)
	}
}

func TestCloseDetaches(t *testing.T) {
	s, vp := newTestSession(t)
	l, _ := s.StartPolyline()
	vp.Click(at(0, 0), pointer.ModNone)

	s.Close()

	if EditorFor(l).Drawing() {
		t.Error("Close did not stop drawing")
	}
	if s.Root().Attached() {
		t.Error("root still attached")
	}
	if vp.Input().TargetCount() != 0 {
		t.Errorf("targets = %d, want 0", vp.Input().TargetCount())
	}
}
