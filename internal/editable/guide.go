package editable

import (
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/viewport"
)

// Guide is the dashed segment previewing the next edge while drawing. Its
// anchor is a ring position shared by pointer; its tip follows the pointer.
type Guide struct {
	class  string
	anchor *geo.Position
	tip    *geo.Position
	root   *Layer
	vp     viewport.Viewport
}

func newGuide(root *Layer, class string) *Guide {
	return &Guide{root: root, class: class}
}

// Anchor fixes the first endpoint. A nil position is ignored.
func (g *Guide) Anchor(p *geo.Position) {
	if p == nil {
		return
	}
	g.anchor = p
	g.invalidate()
}

// Move updates the second endpoint. It does nothing until anchored.
func (g *Guide) Move(p geo.Position) {
	if g.anchor == nil {
		return
	}
	tip := p
	g.tip = &tip
	g.invalidate()
}

// Anchored reports whether the guide has a first endpoint.
func (g *Guide) Anchored() bool { return g.anchor != nil }

// AnchorPosition returns the anchor, or nil.
func (g *Guide) AnchorPosition() *geo.Position { return g.anchor }

// Tip returns the second endpoint and whether it is set.
func (g *Guide) Tip() (geo.Position, bool) {
	if g.tip == nil {
		return geo.Position{}, false
	}
	return *g.tip, true
}

// Attach shows the guide.
func (g *Guide) Attach() { g.root.add(g) }

// Detach hides the guide and clears both endpoints.
func (g *Guide) Detach() {
	g.anchor = nil
	g.tip = nil
	g.root.remove(g)
}

// Attached reports whether the guide is shown.
func (g *Guide) Attached() bool { return g.root.contains(g) }

// Shape implements viewport.Overlay.
func (g *Guide) Shape() (viewport.Shape, bool) {
	if g.anchor == nil || g.tip == nil {
		return viewport.Shape{}, false
	}
	return viewport.Shape{
		Kind:    viewport.ShapeSegment,
		Class:   g.class,
		From:    *g.anchor,
		To:      *g.tip,
		Opacity: 1,
	}, true
}

func (g *Guide) invalidate() {
	if g.vp != nil {
		g.vp.Invalidate()
	}
}

func (g *Guide) onAdd(vp viewport.Viewport) {
	g.vp = vp
	vp.AddOverlay(g)
}

func (g *Guide) onRemove(vp viewport.Viewport) {
	vp.RemoveOverlay(g)
	g.vp = nil
}
