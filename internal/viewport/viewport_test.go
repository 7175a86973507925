package viewport

import (
	"math"
	"testing"

	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
)

type fixedOverlay struct {
	shape Shape
	ok    bool
}

func (f *fixedOverlay) Shape() (Shape, bool) { return f.shape, f.ok }

func TestLinearRoundTrip(t *testing.T) {
	proj := NewLinear(geo.Position{Lat: 45, Lng: 5}, 10, 80, 24)

	tests := []geo.Position{
		{Lat: 45, Lng: 5},
		{Lat: 46.5, Lng: 3.25},
		{Lat: -10, Lng: 170},
	}
	for _, p := range tests {
		back := proj.Unproject(proj.Project(p))
		if math.Abs(back.Lat-p.Lat) > 1e-9 || math.Abs(back.Lng-p.Lng) > 1e-9 {
			t.Errorf("round trip of %v = %v", p, back)
		}
	}

	center := proj.Project(geo.Position{Lat: 45, Lng: 5})
	if center.X != 40 || center.Y != 12 {
		t.Errorf("origin projects to %v, want screen centre", center)
	}
	north := proj.Project(geo.Position{Lat: 46, Lng: 5})
	if north.Y >= center.Y {
		t.Error("north should be drawn above the centre")
	}
}

func TestLayerLifecycle(t *testing.T) {
	vp := NewHeadless()
	line := feature.NewPolyline()

	var removed []feature.Layer
	vp.OnLayerRemove(func(l feature.Layer) { removed = append(removed, l) })

	vp.AddLayer(line)
	vp.AddLayer(line)
	if got := len(vp.Layers()); got != 1 {
		t.Fatalf("Layers() len = %d, want 1", got)
	}

	vp.RemoveLayer(line)
	vp.RemoveLayer(line)
	if len(removed) != 1 || removed[0] != line {
		t.Errorf("removal notifications = %v, want exactly one", removed)
	}
	if vp.HasLayer(line) {
		t.Error("layer still shown after removal")
	}
}

func TestRedrawCounting(t *testing.T) {
	vp := NewHeadless()
	line := feature.NewPolyline()

	var hooked int
	vp.OnRedraw = func(feature.Layer) { hooked++ }

	vp.Redraw(line)
	vp.Redraw(line)

	if vp.Redraws(line) != 2 {
		t.Errorf("Redraws() = %d, want 2", vp.Redraws(line))
	}
	if hooked != 2 || !vp.Dirty() {
		t.Errorf("hook calls = %d, dirty = %v", hooked, vp.Dirty())
	}
	vp.ClearDirty()
	if vp.Dirty() {
		t.Error("ClearDirty did not reset the flag")
	}
}

func TestDrawingClass(t *testing.T) {
	vp := NewHeadless()
	vp.SetDrawing("editable-drawing", true)
	if !vp.HasClass("editable-drawing") {
		t.Fatal("class not set")
	}
	vp.SetDrawing("editable-drawing", false)
	if vp.HasClass("editable-drawing") {
		t.Error("class not cleared")
	}
}

func TestShapesOrderedByZIndex(t *testing.T) {
	vp := NewHeadless()
	top := &fixedOverlay{shape: Shape{Class: "top", ZIndex: 10}, ok: true}
	bottom := &fixedOverlay{shape: Shape{Class: "bottom", ZIndex: 1}, ok: true}
	hidden := &fixedOverlay{ok: false}

	vp.AddOverlay(top)
	vp.AddOverlay(bottom)
	vp.AddOverlay(hidden)
	vp.AddOverlay(top)

	shapes := vp.Shapes()
	if len(shapes) != 2 || shapes[0].Class != "bottom" || shapes[1].Class != "top" {
		t.Fatalf("Shapes() = %+v", shapes)
	}

	vp.RemoveOverlay(top)
	if len(vp.Overlays()) != 2 {
		t.Errorf("Overlays() len = %d, want 2", len(vp.Overlays()))
	}
}

func TestHeadlessFeedsDispatcher(t *testing.T) {
	vp := NewHeadless()
	var clicked []geo.Position
	vp.Input().OnClick(func(ev *pointer.Event) { clicked = append(clicked, ev.Position) })

	vp.Click(geo.Position{Lat: 2, Lng: 3}, pointer.ModNone)

	if len(clicked) != 1 || !clicked[0].Equal(geo.Position{Lat: 2, Lng: 3}) {
		t.Errorf("clicked = %v", clicked)
	}
}
