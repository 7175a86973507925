package raster

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/gogpu/gg"

	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/viewport"
)

// Scene is the part of a viewport a snapshot reads.
type Scene interface {
	Project(p geo.Position) geo.Point
	Layers() []feature.Layer
	Shapes() []viewport.Shape
}

// Style keys for features; overlays are keyed by their class.
const (
	StyleMarker   = "feature-marker"
	StylePolyline = "feature-polyline"
	StylePolygon  = "feature-polygon"
)

// Style is how one kind of geometry is painted. Empty colours are skipped.
type Style struct {
	Fill      string
	FillAlpha float64
	Stroke    string
	Width     float64
	Dash      []float64
	Radius    float64
}

// DefaultStyles returns the styles for the default editing classes.
func DefaultStyles() map[string]Style {
	o := editable.DefaultOptions()
	return map[string]Style{
		StyleMarker:    {Fill: "#d62728", FillAlpha: 1, Stroke: "#7f0000", Width: 1, Radius: 6},
		StylePolyline:  {Stroke: "#1f77b4", Width: 3},
		StylePolygon:   {Fill: "#2e8b57", FillAlpha: 0.35, Stroke: "#2e8b57", Width: 2},
		o.VertexClass:  {Fill: "#ffffff", FillAlpha: 1, Stroke: "#333333", Width: 1},
		o.MiddleClass:  {Fill: "#ffffff", FillAlpha: 1, Stroke: "#333333", Width: 1},
		o.PendingClass: {Fill: "#ffd700", FillAlpha: 1, Stroke: "#333333", Width: 1},
		o.GuideClass:   {Stroke: "#555555", Width: 1, Dash: []float64{4, 4}},
	}
}

// Renderer draws scenes.
type Renderer struct {
	width      int
	height     int
	background string
	styles     map[string]Style
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBackground sets the background colour as a hex string.
func WithBackground(hex string) Option {
	return func(r *Renderer) { r.background = hex }
}

// WithStyle sets the style for a feature key or handle class.
func WithStyle(key string, s Style) Option {
	return func(r *Renderer) { r.styles[key] = s }
}

// New creates a renderer producing width by height images.
func New(width, height int, opts ...Option) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", width, height)
	}
	r := &Renderer{
		width:      width,
		height:     height,
		background: "#ffffff",
		styles:     DefaultStyles(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render draws s and returns the image.
func (r *Renderer) Render(s Scene) (image.Image, error) {
	dc, err := r.draw(s)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG draws s and encodes it as PNG to w.
func (r *Renderer) WritePNG(w io.Writer, s Scene) error {
	dc, err := r.draw(s)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.FlushGPU(); err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG draws s into a PNG file at path.
func (r *Renderer) SavePNG(path string, s Scene) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return r.WritePNG(f, s)
}

func (r *Renderer) draw(s Scene) (*gg.Context, error) {
	dc := gg.NewContext(r.width, r.height)
	dc.ClearWithColor(gg.Hex(r.background))

	for _, l := range feature.Flatten(s.Layers()) {
		if err := r.drawFeature(dc, s, l); err != nil {
			dc.Close()
			return nil, fmt.Errorf("raster: draw %s %s: %w", l.Kind(), l.ID(), err)
		}
	}
	for _, sh := range s.Shapes() {
		if err := r.drawShape(dc, s, sh); err != nil {
			dc.Close()
			return nil, fmt.Errorf("raster: draw %s: %w", sh.Class, err)
		}
	}
	return dc, nil
}

func (r *Renderer) drawFeature(dc *gg.Context, s Scene, l feature.Layer) error {
	switch f := l.(type) {
	case *feature.Marker:
		st := r.styles[StyleMarker]
		pt := s.Project(*f.LatLng())
		dc.DrawCircle(pt.X, pt.Y, st.Radius)
		return paint(dc, st)
	case *feature.Polyline:
		if !tracePath(dc, s, f.Ring(), false) {
			return nil
		}
		st := r.styles[StylePolyline]
		st.Fill = ""
		return paint(dc, st)
	case *feature.Polygon:
		if !tracePath(dc, s, f.Outer(), true) {
			return nil
		}
		for _, h := range f.Holes() {
			tracePath(dc, s, h, true)
		}
		dc.SetFillRule(gg.FillRuleEvenOdd)
		return paint(dc, r.styles[StylePolygon])
	}
	return nil
}

func (r *Renderer) drawShape(dc *gg.Context, s Scene, sh viewport.Shape) error {
	st, ok := r.styles[sh.Class]
	if !ok {
		return nil
	}
	switch sh.Kind {
	case viewport.ShapeHandle:
		if sh.Opacity <= 0 {
			return nil
		}
		pt := s.Project(sh.At)
		dc.DrawRectangle(pt.X-sh.Size/2, pt.Y-sh.Size/2, sh.Size, sh.Size)
		st.FillAlpha *= sh.Opacity
		return paint(dc, st)
	case viewport.ShapeSegment:
		from, to := s.Project(sh.From), s.Project(sh.To)
		dc.MoveTo(from.X, from.Y)
		dc.LineTo(to.X, to.Y)
		st.Fill = ""
		return paint(dc, st)
	}
	return nil
}

// tracePath adds r as a subpath. It reports false when r is empty.
func tracePath(dc *gg.Context, s Scene, r *geo.Ring, closed bool) bool {
	coords := r.Coords()
	if len(coords) == 0 {
		return false
	}
	dc.NewSubPath()
	for i, c := range coords {
		pt := s.Project(c)
		if i == 0 {
			dc.MoveTo(pt.X, pt.Y)
		} else {
			dc.LineTo(pt.X, pt.Y)
		}
	}
	if closed {
		dc.ClosePath()
	}
	return true
}

// paint fills and strokes the current path, then clears it.
func paint(dc *gg.Context, st Style) error {
	defer dc.ClearPath()
	if st.Fill != "" {
		c := gg.Hex(st.Fill)
		alpha := st.FillAlpha
		if alpha == 0 {
			alpha = 1
		}
		dc.SetRGBA(c.R, c.G, c.B, alpha)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if st.Stroke != "" && st.Width > 0 {
		dc.SetHexColor(st.Stroke)
		dc.SetLineWidth(st.Width)
		dc.SetDash(st.Dash...)
		if err := dc.StrokePreserve(); err != nil {
			return err
		}
		dc.ClearDash()
	}
	return nil
}
