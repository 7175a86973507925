// Package raster draws a viewport scene into an image with gogpu/gg.
//
// It renders what a host would show: features in insertion order, then
// overlays (handles and guides) by z-index, using the viewport's own
// projection. Styles are keyed like the terminal host: feature keys for
// geometry and handle classes for overlays.
package raster
