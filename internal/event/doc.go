// Package event provides the notification channel of geoedit.
//
// Every feature, feature group and viewport owns an Emitter. The editing core
// fires a single *Event per notification and forwards it, mutated in place,
// from the feature to its parent group and finally to the viewport, so a
// listener registered anywhere in that chain sees the same value.
//
// # Topics
//
// Notifications use hierarchical topics with dot notation:
//
//	editable.created          - a feature was created by a session helper
//	editable.enable           - editing was enabled on a feature
//	editable.drawing.start    - a drawing gesture started
//	editable.vertex.deleted   - a vertex was removed from a ring
//
// Subscriptions may use wildcard patterns (see package topic):
//
//	emitter.On("editable.vertex.*", h)   // every vertex notification
//	emitter.On("editable.**", h)         // everything from the editor
//
// # Delivery
//
// Delivery is synchronous, in the firing goroutine, ordered by priority and
// then by subscription order. Handlers may subscribe, unsubscribe and fire
// from inside a handler; changes take effect for the next Fire.
//
// Handler errors and panics never interrupt delivery. They are wrapped in
// HandlerError or PanicError and passed to the emitter's error handler.
package event
