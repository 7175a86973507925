package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/viewport"
)

type glyph struct {
	r     rune
	style tcell.Style
}

// Glyph keys for features; overlays are keyed by their class.
const (
	GlyphMarker   = "feature-marker"
	GlyphPolyline = "feature-polyline"
	GlyphPolygon  = "feature-polygon"
	GlyphHole     = "feature-hole"
	GlyphStatus   = "status"
)

func defaultGlyphs() map[string]glyph {
	o := editable.DefaultOptions()
	return map[string]glyph{
		GlyphMarker:    {'◆', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)},
		GlyphPolyline:  {'•', tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)},
		GlyphPolygon:   {'•', tcell.StyleDefault.Foreground(tcell.ColorGreen)},
		GlyphHole:      {'·', tcell.StyleDefault.Foreground(tcell.ColorOlive)},
		GlyphStatus:    {' ', tcell.StyleDefault.Reverse(true)},
		o.VertexClass:  {'■', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)},
		o.MiddleClass:  {'□', tcell.StyleDefault.Foreground(tcell.ColorGray)},
		o.PendingClass: {'+', tcell.StyleDefault.Foreground(tcell.ColorYellow)},
		o.GuideClass:   {':', tcell.StyleDefault.Foreground(tcell.ColorYellow).Dim(true)},
	}
}

// SetGlyph sets the rune and style drawn for a class or glyph key.
func (v *Viewport) SetGlyph(class string, r rune, style tcell.Style) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.glyphs[class] = glyph{r: r, style: style}
}

// SetClasses re-keys the overlay glyphs for the given handle classes.
func (v *Viewport) SetClasses(vertex, middle, pending, guide string) {
	d := editable.DefaultOptions()
	defaults := defaultGlyphs()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.glyphs[vertex] = defaults[d.VertexClass]
	v.glyphs[middle] = defaults[d.MiddleClass]
	v.glyphs[pending] = defaults[d.PendingClass]
	v.glyphs[guide] = defaults[d.GuideClass]
}

// Draw renders the features, the overlays and the status line, then shows
// the screen.
func (v *Viewport) Draw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.screen.Clear()
	for _, l := range feature.Flatten(v.Layers()) {
		v.drawFeature(l)
	}
	for _, s := range v.Shapes() {
		v.drawShape(s)
	}
	v.drawStatus()
	v.screen.Show()
	v.ClearDirty()
}

func (v *Viewport) drawFeature(l feature.Layer) {
	switch f := l.(type) {
	case *feature.Marker:
		v.plot(v.Project(*f.LatLng()), v.glyphs[GlyphMarker])
	case *feature.Polyline:
		v.drawRing(f.Ring(), false, v.glyphs[GlyphPolyline])
	case *feature.Polygon:
		v.drawRing(f.Outer(), true, v.glyphs[GlyphPolygon])
		for _, h := range f.Holes() {
			v.drawRing(h, true, v.glyphs[GlyphHole])
		}
	}
}

func (v *Viewport) drawRing(r *geo.Ring, closed bool, g glyph) {
	coords := r.Coords()
	if len(coords) == 1 {
		v.plot(v.Project(coords[0]), g)
		return
	}
	for i := 1; i < len(coords); i++ {
		v.line(v.Project(coords[i-1]), v.Project(coords[i]), g)
	}
	if closed && len(coords) > 2 {
		v.line(v.Project(coords[len(coords)-1]), v.Project(coords[0]), g)
	}
}

func (v *Viewport) drawShape(s viewport.Shape) {
	g, ok := v.glyphs[s.Class]
	if !ok {
		g = glyph{r: '?', style: tcell.StyleDefault}
	}
	switch s.Kind {
	case viewport.ShapeHandle:
		if s.Opacity <= 0 {
			return
		}
		v.plot(v.Project(s.At), g)
	case viewport.ShapeSegment:
		v.line(v.Project(s.From), v.Project(s.To), g)
	}
}

func (v *Viewport) drawStatus() {
	if v.height == 0 {
		return
	}
	g := v.glyphs[GlyphStatus]
	y := v.height - 1
	text := []rune(v.status)
	for x := 0; x < v.width; x++ {
		r := g.r
		if x < len(text) {
			r = text[x]
		}
		v.screen.SetContent(x, y, r, nil, g.style)
	}
}

// plot draws g in the cell containing pt, leaving the status line alone.
func (v *Viewport) plot(pt geo.Point, g glyph) {
	x, y := CellOf(pt)
	if x < 0 || y < 0 || x >= v.width || y >= v.height-1 {
		return
	}
	v.screen.SetContent(x, y, g.r, nil, g.style)
}

// maxLineCells bounds the length of a drawn segment.
const maxLineCells = 1 << 14

// line draws g along the cells between a and b (Bresenham).
func (v *Viewport) line(a, b geo.Point, g glyph) {
	x0, y0 := CellOf(a)
	x1, y1 := CellOf(b)
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	if dx > maxLineCells || -dy > maxLineCells {
		return
	}
	e := dx + dy
	for {
		v.plot(CellCenter(x0, y0), g)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
