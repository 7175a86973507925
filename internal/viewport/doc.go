// Package viewport defines the host surface the editing core draws on.
//
// A Viewport projects positions to screen points, owns the pointer
// dispatcher, keeps the list of shown features and overlays (handles and
// guides), and carries the viewport-wide notification channel that receives
// every forwarded editing notification.
//
// Base implements all of this except drawing. Hosts embed it and install a
// redraw hook; Headless is the host used by tests and scripted rendering.
package viewport
