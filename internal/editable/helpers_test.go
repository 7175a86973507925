package editable

import (
	"testing"

	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/viewport"
)

// newTestSession returns a session on a headless viewport at 100 screen
// units per degree, so that handles one degree apart never overlap.
func newTestSession(t *testing.T, opts ...Option) (*Session, *viewport.Headless) {
	t.Helper()
	vp := viewport.NewHeadlessWith(viewport.Linear{ScaleX: 100, ScaleY: 100}, geo.Position{}, pointer.DefaultConfig())
	return NewSession(vp, opts...), vp
}

func at(lat, lng float64) geo.Position {
	return geo.Position{Lat: lat, Lng: lng}
}

func sameCoords(got, want []geo.Position) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			return false
		}
	}
	return true
}

// recorder collects the topics fired on an emitter.
type recorder struct {
	topics []string
	events []*event.Event
}

func record(em *event.Emitter) *recorder {
	r := &recorder{}
	em.Listen("editable.**", func(ev *event.Event) {
		r.topics = append(r.topics, string(ev.Type))
		r.events = append(r.events, ev)
	})
	return r
}

func (r *recorder) count(t string) int {
	n := 0
	for _, got := range r.topics {
		if got == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t string) *event.Event {
	for i := len(r.events) - 1; i >= 0; i-- {
		if string(r.events[i].Type) == t {
			return r.events[i]
		}
	}
	return nil
}

// handleCounts returns the number of vertex and midpoint handles in the
// editor's layer.
func handleCounts(ed *PathEditor) (vertices, middles int) {
	for _, m := range ed.layer.members {
		switch m.(type) {
		case *VertexHandle:
			vertices++
		case *MidpointHandle:
			middles++
		}
	}
	return vertices, middles
}

// checkMidpoints verifies that every vertex owns exactly the midpoint
// towards its previous vertex, placed halfway between them.
func checkMidpoints(t *testing.T, ed *PathEditor) {
	t.Helper()
	want := 0
	for _, ring := range ed.kind.ringGroups(ed) {
		for _, pos := range ring.Positions() {
			v := ed.Handle(pos)
			if v == nil {
				t.Fatalf("no handle for %s", pos)
			}
			prev := v.Previous()
			m := v.Midpoint()
			if prev == nil {
				if m != nil {
					t.Errorf("vertex %s has a midpoint but no previous vertex", pos)
				}
				continue
			}
			want++
			if m == nil {
				t.Errorf("vertex %s has no midpoint", pos)
				continue
			}
			if m.Left() != prev || m.Right() != v {
				t.Errorf("midpoint of %s links %s-%s", pos, m.Left().Position(), m.Right().Position())
			}
			if !m.Position().Equal(geo.Midpoint(*prev.Position(), *pos)) {
				t.Errorf("midpoint of %s at %s", pos, m.Position())
			}
			if !ed.layer.contains(m) {
				t.Errorf("midpoint of %s is not shown", pos)
			}
		}
	}
	if _, middles := handleCounts(ed); middles != want {
		t.Errorf("midpoint handles = %d, want %d", middles, want)
	}
}

func pathEditor(t *testing.T, ed Editor) *PathEditor {
	t.Helper()
	pe, ok := ed.(*PathEditor)
	if !ok {
		t.Fatalf("editor is %T, want *PathEditor", ed)
	}
	return pe
}
