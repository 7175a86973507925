package event

import (
	"github.com/dshills/geoedit/internal/event/topic"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for handlers that keep state consistent, such as
	// the session's own bookkeeping.
	PriorityCritical Priority = 0

	// PriorityHigh is for host handlers such as redraw scheduling.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority for application and script hooks.
	PriorityNormal Priority = 200

	// PriorityLow is for logging handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler is the interface for notification handlers.
type Handler interface {
	// Handle processes an event. The event is shared with every other
	// handler along the forwarding chain.
	Handle(ev *Event) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ev *Event) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ev *Event) error {
	return f(ev)
}

// Listen adapts a function without an error result to a Handler.
func Listen(fn func(ev *Event)) Handler {
	return HandlerFunc(func(ev *Event) error {
		fn(ev)
		return nil
	})
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event, false to filter it out.
type FilterFunc func(ev *Event) bool

// ForLayer accepts events concerning the feature with the given ID, or a
// member of the group with that ID.
func ForLayer(id string) FilterFunc {
	return func(ev *Event) bool {
		if ev.Layer == nil {
			return false
		}
		if ev.Layer.ID() == id {
			return true
		}
		g, ok := ev.Layer.(interface{ GroupID() string })
		return ok && g.GroupID() == id
	}
}

// Notification topics fired by the editing core.
const (
	TopicCreated = topic.Topic("editable.created")
	TopicEnable  = topic.Topic("editable.enable")
	TopicDisable = topic.Topic("editable.disable")
	TopicEditing = topic.Topic("editable.editing")

	TopicDrawingStart  = topic.Topic("editable.drawing.start")
	TopicDrawingEnd    = topic.Topic("editable.drawing.end")
	TopicDrawingCancel = topic.Topic("editable.drawing.cancel")
	TopicDrawingFinish = topic.Topic("editable.drawing.finish")
	TopicDrawingClick  = topic.Topic("editable.drawing.click")

	TopicVertexDeleted     = topic.Topic("editable.vertex.deleted")
	TopicVertexCtrlClick   = topic.Topic("editable.vertex.ctrlclick")
	TopicVertexShiftClick  = topic.Topic("editable.vertex.shiftclick")
	TopicVertexAltClick    = topic.Topic("editable.vertex.altclick")
	TopicVertexContextMenu = topic.Topic("editable.vertex.contextmenu")
	TopicVertexMouseDown   = topic.Topic("editable.vertex.mousedown")

	TopicMiddleMarkerMouseDown = topic.Topic("editable.middlemarker.mousedown")

	// TopicLayerRemove is fired on a viewport channel when a feature is
	// removed from it.
	TopicLayerRemove = topic.Topic("viewport.layer.remove")

	// TopicLayerAdd is fired on a viewport channel when a feature is added.
	TopicLayerAdd = topic.Topic("viewport.layer.add")
)

// Topics returns every notification topic of the editing core.
func Topics() []topic.Topic {
	return []topic.Topic{
		TopicCreated, TopicEnable, TopicDisable, TopicEditing,
		TopicDrawingStart, TopicDrawingEnd, TopicDrawingCancel, TopicDrawingFinish, TopicDrawingClick,
		TopicVertexDeleted, TopicVertexCtrlClick, TopicVertexShiftClick, TopicVertexAltClick,
		TopicVertexContextMenu, TopicVertexMouseDown,
		TopicMiddleMarkerMouseDown,
	}
}
