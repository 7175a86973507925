package editable

import (
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/viewport"
)

// PendingHandle is the invisible handle that follows the pointer while
// drawing. Clicking it confirms a new point.
type PendingHandle struct {
	session *Session
	pos     geo.Position
}

func newPendingHandle(s *Session) *PendingHandle {
	return &PendingHandle{session: s, pos: s.vp.Center()}
}

// Position returns the handle location.
func (p *PendingHandle) Position() geo.Position { return p.pos }

// SetPosition moves the handle.
func (p *PendingHandle) SetPosition(pos geo.Position) { p.pos = pos }

// Anchor implements pointer.Target.
func (p *PendingHandle) Anchor() geo.Point {
	return p.session.vp.Project(p.pos)
}

// HitTest implements pointer.Target.
func (p *PendingHandle) HitTest(pt geo.Point) bool {
	return squareHit(p.Anchor(), pt, p.session.opts.vertexSize(p.session.vp.Touch()))
}

// ZIndex implements pointer.Target.
func (p *PendingHandle) ZIndex() int { return p.session.opts.PendingZIndex }

// Click confirms a new point at the click location.
func (p *PendingHandle) Click(ev *pointer.Event) {
	p.pos = ev.Position
	if d := p.session.drawer; d != nil {
		d.onNewPointConfirmed(ev)
	}
}

func (p *PendingHandle) onAdd(vp viewport.Viewport) {
	vp.Input().Register(p)
}

func (p *PendingHandle) onRemove(vp viewport.Viewport) {
	vp.Input().Unregister(p)
}

// squareHit reports whether pt lies within the square of the given edge
// length centred on anchor.
func squareHit(anchor, pt geo.Point, size float64) bool {
	half := size / 2
	d := pt.Sub(anchor)
	return d.X >= -half && d.X <= half && d.Y >= -half && d.Y <= half
}
