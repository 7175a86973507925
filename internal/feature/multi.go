package feature

import "fmt"

// Multi groups polylines or polygons. It forwards nothing by itself: the
// editing core fires member notifications on the member and then on the
// group.
type Multi struct {
	base
	member  Kind
	members []Layer
}

// NewMulti creates an empty group of features of the given member kind.
func NewMulti(member Kind) *Multi {
	return &Multi{base: newBase(), member: member}
}

// Kind returns KindMulti.
func (m *Multi) Kind() Kind { return KindMulti }

// MemberKind returns the kind of the group's members.
func (m *Multi) MemberKind() Kind { return m.member }

// Add adds l to the group and sets its group reference.
func (m *Multi) Add(l Layer) error {
	if l == nil {
		return fmt.Errorf("multi %s: nil member", m.ID())
	}
	if l.Kind() != m.member {
		return fmt.Errorf("multi %s: cannot add %s to a %s group", m.ID(), l.Kind(), m.member)
	}
	for _, existing := range m.members {
		if existing == l {
			return nil
		}
	}
	m.members = append(m.members, l)
	l.SetGroup(m)
	return nil
}

// Remove removes l from the group, clearing its group reference.
func (m *Multi) Remove(l Layer) bool {
	for i, existing := range m.members {
		if existing == l {
			m.members = append(m.members[:i], m.members[i+1:]...)
			l.SetGroup(nil)
			return true
		}
	}
	return false
}

// Len returns the number of members.
func (m *Multi) Len() int { return len(m.members) }

// Layers returns a copy of the member list.
func (m *Multi) Layers() []Layer {
	out := make([]Layer, len(m.members))
	copy(out, m.members)
	return out
}

// Each calls fn for every member, in order, over a snapshot of the list.
func (m *Multi) Each(fn func(l Layer)) {
	for _, l := range m.Layers() {
		fn(l)
	}
}

// Flatten expands groups into their members.
func Flatten(layers []Layer) []Layer {
	out := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if m, ok := l.(*Multi); ok {
			out = append(out, m.Layers()...)
			continue
		}
		out = append(out, l)
	}
	return out
}
