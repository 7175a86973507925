package editable

import "github.com/dshills/geoedit/internal/viewport"

// member is anything held by an edit layer.
type member interface {
	// onAdd is called when the member becomes part of an attached layer.
	onAdd(vp viewport.Viewport)

	// onRemove is called when the member leaves an attached layer.
	onRemove(vp viewport.Viewport)
}

// Layer is an ordered container of handles, guides and nested layers.
// Members receive onAdd when the layer is attached to the viewport and
// onRemove when they leave it.
type Layer struct {
	vp       viewport.Viewport
	members  []member
	attached bool
}

func newLayer(vp viewport.Viewport) *Layer {
	return &Layer{vp: vp}
}

// Attached reports whether the layer is shown on the viewport.
func (l *Layer) Attached() bool { return l.attached }

// Len returns the number of members.
func (l *Layer) Len() int { return len(l.members) }

// contains reports whether m is a member.
func (l *Layer) contains(m member) bool {
	for _, existing := range l.members {
		if existing == m {
			return true
		}
	}
	return false
}

// add appends m. Adding a member twice is a no-op.
func (l *Layer) add(m member) {
	if m == nil || l.contains(m) {
		return
	}
	l.members = append(l.members, m)
	if l.attached {
		m.onAdd(l.vp)
	}
}

// remove drops m, reporting whether it was a member. onRemove runs only
// for members.
func (l *Layer) remove(m member) bool {
	for i, existing := range l.members {
		if existing == m {
			l.members = append(l.members[:i], l.members[i+1:]...)
			if l.attached {
				m.onRemove(l.vp)
			}
			return true
		}
	}
	return false
}

// clear removes every member. Members removed as a side effect of an
// earlier removal are skipped.
func (l *Layer) clear() {
	snapshot := make([]member, len(l.members))
	copy(snapshot, l.members)
	for _, m := range snapshot {
		l.remove(m)
	}
}

// walk calls fn for every member over a snapshot of the list, skipping
// members removed by an earlier call.
func (l *Layer) walk(fn func(m member)) {
	snapshot := make([]member, len(l.members))
	copy(snapshot, l.members)
	for _, m := range snapshot {
		if l.contains(m) {
			fn(m)
		}
	}
}

// attach shows the layer and its members.
func (l *Layer) attach() {
	if l.attached {
		return
	}
	l.attached = true
	l.walk(func(m member) { m.onAdd(l.vp) })
}

// detach hides the layer and its members.
func (l *Layer) detach() {
	if !l.attached {
		return
	}
	l.walk(func(m member) { m.onRemove(l.vp) })
	l.attached = false
}

func (l *Layer) onAdd(viewport.Viewport)    { l.attach() }
func (l *Layer) onRemove(viewport.Viewport) { l.detach() }
