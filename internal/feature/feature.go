package feature

import (
	"github.com/google/uuid"

	"github.com/dshills/geoedit/internal/event"
)

// Kind identifies the geometry type of a feature.
type Kind int

const (
	// KindMarker is a single position.
	KindMarker Kind = iota
	// KindPolyline is an open sequence of positions.
	KindPolyline
	// KindPolygon is a closed outer ring with optional holes.
	KindPolygon
	// KindMulti is a group of polylines or polygons.
	KindMulti
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindPolyline:
		return "polyline"
	case KindPolygon:
		return "polygon"
	case KindMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// Editor is the editing capability a feature can carry.
type Editor interface {
	Enable()
	Disable()
	Enabled() bool
}

// Layer is a feature that can be shown on a viewport.
type Layer interface {
	// ID returns the feature's unique identifier.
	ID() string

	// Kind returns the geometry type.
	Kind() Kind

	// Events returns the feature's own notification channel.
	Events() *event.Emitter

	// Group returns the Multi the feature belongs to, or nil.
	Group() *Multi

	// SetGroup sets the owning Multi.
	SetGroup(m *Multi)

	// Editor returns the installed editor, or nil.
	Editor() Editor

	// SetEditor installs or clears the editor.
	SetEditor(ed Editor)
}

// base holds the state shared by every feature.
type base struct {
	id     string
	events *event.Emitter
	group  *Multi
	editor Editor
}

func newBase() base {
	return base{
		id:     uuid.NewString(),
		events: event.NewEmitter(),
	}
}

// ID returns the feature's unique identifier.
func (b *base) ID() string { return b.id }

// Events returns the feature's notification channel.
func (b *base) Events() *event.Emitter { return b.events }

// Group returns the owning Multi, or nil.
func (b *base) Group() *Multi { return b.group }

// SetGroup sets the owning Multi.
func (b *base) SetGroup(m *Multi) { b.group = m }

// GroupID returns the owning Multi's ID, or "".
func (b *base) GroupID() string {
	if b.group == nil {
		return ""
	}
	return b.group.ID()
}

// Editor returns the installed editor, or nil.
func (b *base) Editor() Editor { return b.editor }

// SetEditor installs or clears the editor.
func (b *base) SetEditor(ed Editor) { b.editor = ed }

// On subscribes fn to the feature's notifications matching pattern.
func (b *base) On(pattern string, fn func(ev *event.Event)) event.Subscription {
	return b.events.Listen(pattern, fn)
}

// EditEnabled reports whether l has an enabled editor.
func EditEnabled(l Layer) bool {
	if l == nil {
		return false
	}
	ed := l.Editor()
	return ed != nil && ed.Enabled()
}
