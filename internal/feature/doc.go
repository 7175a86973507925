// Package feature defines the geometry values geoedit edits.
//
// A Marker holds one position, a Polyline one open ring, a Polygon an outer
// ring plus ordered hole rings. A Multi groups polylines or polygons and
// forwards their notifications. Positions are shared by pointer with the
// editing core: mutating a position through a handle changes the feature.
//
// Features carry no editing logic. They hold a reference to their Editor,
// installed by the editing session, so callers can ask whether a feature is
// being edited without knowing about the session.
package feature
