// Package topic provides hierarchical notification names.
//
// Topics use dot notation ("editable.vertex.deleted"). Subscription patterns
// may contain wildcards:
//
//	editable.vertex.*   - exactly one segment after "editable.vertex"
//	editable.**         - any number of segments after "editable"
//	*.created           - any single-segment prefix
package topic
