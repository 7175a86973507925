// Package hittest provides the geometric predicates the editing core uses to
// decide whether a pointer location hits a feature.
//
// Distances are computed in screen space with gonum's r2 vectors.
// Point-in-polygon classification is delegated to github.com/ctessum/geom,
// which treats points on an edge as OnEdge rather than Inside.
package hittest
