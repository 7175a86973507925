package editable

import (
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/hittest"
	"github.com/dshills/geoedit/internal/logging"
)

// MarkerFactory creates markers for Session.CreateMarker.
type MarkerFactory func(pos *geo.Position) *feature.Marker

// PolylineFactory creates polylines for Session.CreatePolyline.
type PolylineFactory func(coords []geo.Position) *feature.Polyline

// PolygonFactory creates polygons for Session.CreatePolygon.
type PolygonFactory func(coords []geo.Position) *feature.Polygon

// EditorFactory creates the editor for a feature.
type EditorFactory func(s *Session, l feature.Layer) (Editor, error)

// VertexFactory creates the handle for a ring position.
type VertexFactory func(ed *PathEditor, pos *geo.Position, ring *geo.Ring) *VertexHandle

// MiddleFactory creates the handle between two adjacent vertices.
type MiddleFactory func(ed *PathEditor, left, right *VertexHandle, ring *geo.Ring) *MidpointHandle

// Options configures a Session.
type Options struct {
	// Feature factories.
	MarkerFactory   MarkerFactory
	PolylineFactory PolylineFactory
	PolygonFactory  PolygonFactory

	// Editor factories per feature kind.
	MarkerEditorFactory   EditorFactory
	PolylineEditorFactory EditorFactory
	PolygonEditorFactory  EditorFactory

	// Handle factories.
	VertexFactory VertexFactory
	MiddleFactory MiddleFactory

	// VertexSize and TouchVertexSize are handle edge lengths in screen
	// units for pointer and touch input.
	VertexSize      float64
	TouchVertexSize float64

	// Style classes.
	DrawingClass string
	VertexClass  string
	MiddleClass  string
	PendingClass string
	GuideClass   string

	// Z-indices; vertices must sit above midpoints, which sit above the
	// pending handle.
	VertexZIndex  int
	MiddleZIndex  int
	PendingZIndex int

	// MiddleOpacity is the opacity of midpoint handles.
	MiddleOpacity float64

	// HitTolerance and TouchHitTolerance are the border widths, in screen
	// units, counted as inside a polygon.
	HitTolerance      float64
	TouchHitTolerance float64

	// Tester answers hit-testing questions.
	Tester hittest.Tester

	// Logger receives debug output under component=editable.
	Logger *logging.Logger
}

// DefaultOptions returns the default session configuration.
func DefaultOptions() Options {
	return Options{
		MarkerFactory: func(pos *geo.Position) *feature.Marker {
			return feature.NewMarker(pos)
		},
		PolylineFactory: func(coords []geo.Position) *feature.Polyline {
			return feature.NewPolyline(coords...)
		},
		PolygonFactory: func(coords []geo.Position) *feature.Polygon {
			return feature.NewPolygon(coords...)
		},
		MarkerEditorFactory:   newMarkerEditor,
		PolylineEditorFactory: newPolylineEditor,
		PolygonEditorFactory:  newPolygonEditor,
		VertexFactory:         NewVertexHandle,
		MiddleFactory:         NewMidpointHandle,

		VertexSize:      8,
		TouchVertexSize: 20,

		DrawingClass: "editable-drawing",
		VertexClass:  "editable-vertex",
		MiddleClass:  "editable-middle",
		PendingClass: "editable-pending",
		GuideClass:   "editable-guide",

		VertexZIndex:  10001,
		MiddleZIndex:  10000,
		PendingZIndex: 0,

		MiddleOpacity: 0.5,

		HitTolerance:      2.5,
		TouchHitTolerance: 12.5,

		Tester: hittest.Default,
		Logger: logging.Nop(),
	}
}

// Option is a function that configures a Session.
type Option func(*Options)

// WithMarkerFactory sets the marker factory.
func WithMarkerFactory(f MarkerFactory) Option {
	return func(o *Options) { o.MarkerFactory = f }
}

// WithPolylineFactory sets the polyline factory.
func WithPolylineFactory(f PolylineFactory) Option {
	return func(o *Options) { o.PolylineFactory = f }
}

// WithPolygonFactory sets the polygon factory.
func WithPolygonFactory(f PolygonFactory) Option {
	return func(o *Options) { o.PolygonFactory = f }
}

// WithEditorFactory sets the editor factory for a feature kind.
func WithEditorFactory(kind feature.Kind, f EditorFactory) Option {
	return func(o *Options) {
		switch kind {
		case feature.KindMarker:
			o.MarkerEditorFactory = f
		case feature.KindPolyline:
			o.PolylineEditorFactory = f
		case feature.KindPolygon:
			o.PolygonEditorFactory = f
		}
	}
}

// WithVertexFactory sets the vertex handle factory.
func WithVertexFactory(f VertexFactory) Option {
	return func(o *Options) { o.VertexFactory = f }
}

// WithMiddleFactory sets the midpoint handle factory.
func WithMiddleFactory(f MiddleFactory) Option {
	return func(o *Options) { o.MiddleFactory = f }
}

// WithVertexSize sets the handle sizes for pointer and touch input.
func WithVertexSize(pointer, touch float64) Option {
	return func(o *Options) {
		o.VertexSize = pointer
		o.TouchVertexSize = touch
	}
}

// WithDrawingClass sets the class put on the viewport while drawing.
func WithDrawingClass(class string) Option {
	return func(o *Options) { o.DrawingClass = class }
}

// WithHandleClasses sets the vertex, midpoint and pending handle classes.
// Empty values keep the current class.
func WithHandleClasses(vertex, middle, pending string) Option {
	return func(o *Options) {
		if vertex != "" {
			o.VertexClass = vertex
		}
		if middle != "" {
			o.MiddleClass = middle
		}
		if pending != "" {
			o.PendingClass = pending
		}
	}
}

// WithGuideClass sets the class of the drawing guides.
func WithGuideClass(class string) Option {
	return func(o *Options) { o.GuideClass = class }
}

// WithZIndex sets the vertex and midpoint z-indices.
func WithZIndex(vertex, middle int) Option {
	return func(o *Options) {
		o.VertexZIndex = vertex
		o.MiddleZIndex = middle
	}
}

// WithMiddleOpacity sets the midpoint handle opacity.
func WithMiddleOpacity(opacity float64) Option {
	return func(o *Options) { o.MiddleOpacity = opacity }
}

// WithHitTolerance sets the polygon border tolerances.
func WithHitTolerance(pointer, touch float64) Option {
	return func(o *Options) {
		o.HitTolerance = pointer
		o.TouchHitTolerance = touch
	}
}

// WithTester sets the hit tester.
func WithTester(t hittest.Tester) Option {
	return func(o *Options) { o.Tester = t }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// vertexSize returns the handle size for the input device.
func (o *Options) vertexSize(touch bool) float64 {
	if touch {
		return o.TouchVertexSize
	}
	return o.VertexSize
}

// tolerance returns the polygon border tolerance for the input device.
func (o *Options) tolerance(touch bool) float64 {
	if touch {
		return o.TouchHitTolerance
	}
	return o.HitTolerance
}
