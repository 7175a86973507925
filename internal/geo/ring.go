package geo

// Ring is an ordered, mutable sequence of positions. Order defines segment
// adjacency. Whether the last position connects back to the first is decided
// by whoever edits the ring, not by the ring itself.
type Ring struct {
	positions []*Position
}

// NewRing builds a ring holding fresh copies of the given coordinates.
func NewRing(coords ...Position) *Ring {
	r := &Ring{positions: make([]*Position, 0, len(coords))}
	for _, c := range coords {
		c := c
		r.positions = append(r.positions, &c)
	}
	return r
}

// Len returns the number of positions.
func (r *Ring) Len() int {
	return len(r.positions)
}

// At returns the position at index i, or nil when out of range.
func (r *Ring) At(i int) *Position {
	if i < 0 || i >= len(r.positions) {
		return nil
	}
	return r.positions[i]
}

// First returns the first position or nil.
func (r *Ring) First() *Position {
	return r.At(0)
}

// Last returns the last position or nil.
func (r *Ring) Last() *Position {
	return r.At(len(r.positions) - 1)
}

// IndexOf returns the index of p (by identity) or -1.
func (r *Ring) IndexOf(p *Position) int {
	for i, q := range r.positions {
		if q == p {
			return i
		}
	}
	return -1
}

// Contains reports whether p is a member of the ring.
func (r *Ring) Contains(p *Position) bool {
	return r.IndexOf(p) >= 0
}

// Append adds p at the end.
func (r *Ring) Append(p *Position) {
	r.positions = append(r.positions, p)
}

// Prepend adds p at the start.
func (r *Ring) Prepend(p *Position) {
	r.Insert(0, p)
}

// Insert places p at index i, shifting later positions right. Indices past
// the end append.
func (r *Ring) Insert(i int, p *Position) {
	if i < 0 {
		i = 0
	}
	if i >= len(r.positions) {
		r.positions = append(r.positions, p)
		return
	}
	r.positions = append(r.positions, nil)
	copy(r.positions[i+1:], r.positions[i:])
	r.positions[i] = p
}

// Remove deletes p from the ring. It returns false when p is not a member.
func (r *Ring) Remove(p *Position) bool {
	i := r.IndexOf(p)
	if i < 0 {
		return false
	}
	copy(r.positions[i:], r.positions[i+1:])
	r.positions[len(r.positions)-1] = nil
	r.positions = r.positions[:len(r.positions)-1]
	return true
}

// Positions returns a snapshot of the ring's members. The slice is a copy,
// the positions are shared.
func (r *Ring) Positions() []*Position {
	out := make([]*Position, len(r.positions))
	copy(out, r.positions)
	return out
}

// Coords returns the coordinates by value.
func (r *Ring) Coords() []Position {
	out := make([]Position, len(r.positions))
	for i, p := range r.positions {
		out[i] = *p
	}
	return out
}
