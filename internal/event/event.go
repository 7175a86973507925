package event

import (
	"time"

	"github.com/dshills/geoedit/internal/event/topic"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
)

// Source is anything that can be named in a notification: features, groups
// and handles.
type Source interface {
	ID() string
}

// Event is a notification delivered to handlers.
//
// Fields other than Type are optional; which ones are set depends on the
// topic. Layer is filled by the firing editor before the first delivery.
type Event struct {
	// Type is the notification topic (e.g. "editable.vertex.deleted").
	Type topic.Topic

	// Layer is the feature the notification concerns.
	Layer Source

	// Vertex is the vertex handle involved, if any.
	Vertex Source

	// Middle is the midpoint handle involved, if any.
	Middle Source

	// Position is the position involved, if any. For vertex notifications
	// it is the vertex position; for drawing clicks the confirmed location.
	Position *geo.Position

	// Pointer is the originating pointer event, if any.
	Pointer *pointer.Event

	// Timestamp is when the event was created.
	Timestamp time.Time
}

// New creates an event of the given type.
func New(t topic.Topic) *Event {
	return &Event{
		Type:      t,
		Timestamp: time.Now(),
	}
}

// WithLayer sets the Layer field and returns the event.
func (e *Event) WithLayer(s Source) *Event {
	e.Layer = s
	return e
}

// WithVertex sets the Vertex field and returns the event.
func (e *Event) WithVertex(s Source) *Event {
	e.Vertex = s
	return e
}

// WithMiddle sets the Middle field and returns the event.
func (e *Event) WithMiddle(s Source) *Event {
	e.Middle = s
	return e
}

// WithPosition sets the Position field and returns the event.
func (e *Event) WithPosition(p *geo.Position) *Event {
	e.Position = p
	return e
}

// WithPointer sets the Pointer field and returns the event.
func (e *Event) WithPointer(p *pointer.Event) *Event {
	e.Pointer = p
	return e
}

// LayerID returns the ID of the event's layer, or "" if none.
func (e *Event) LayerID() string {
	if e.Layer == nil {
		return ""
	}
	return e.Layer.ID()
}
