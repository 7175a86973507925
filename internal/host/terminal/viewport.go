package terminal

import (
	"errors"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/viewport"
)

// Cell dimensions in screen units.
const (
	CellWidth  = 8
	CellHeight = 16
)

// VertexSize is the smallest handle size that covers a whole cell.
const VertexSize = CellHeight

// ErrNilScreen is returned when a viewport is created without a screen.
var ErrNilScreen = errors.New("terminal screen is nil")

// Viewport is a viewport drawn on a tcell screen.
type Viewport struct {
	*viewport.Base

	mu     sync.Mutex
	screen tcell.Screen
	scale  float64
	width  int
	height int

	buttons tcell.ButtonMask
	lastX   int
	lastY   int

	glyphs map[string]glyph
	status string
}

// New creates a viewport on screen centred on center with scale cells per
// degree of longitude. The screen must already be initialised.
func New(screen tcell.Screen, center geo.Position, scale float64, config pointer.Config) (*Viewport, error) {
	if screen == nil {
		return nil, ErrNilScreen
	}
	if scale <= 0 {
		scale = 1
	}
	v := &Viewport{
		screen: screen,
		scale:  scale,
		lastX:  -1,
		lastY:  -1,
		glyphs: defaultGlyphs(),
	}
	v.width, v.height = screen.Size()
	v.Base = viewport.NewBase(v.projection(center), center, config)
	return v, nil
}

// Open creates and initialises a tcell screen on the controlling terminal
// and returns a viewport on it.
func Open(center geo.Position, scale float64, config pointer.Config) (*Viewport, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.Clear()
	return New(screen, center, scale, config)
}

// Screen returns the underlying screen.
func (v *Viewport) Screen() tcell.Screen { return v.screen }

// Close finalises the screen.
func (v *Viewport) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.screen.Fini()
}

// Size returns the screen size in cells.
func (v *Viewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Scale returns the cells per degree of longitude.
func (v *Viewport) Scale() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale
}

func (v *Viewport) projection(center geo.Position) viewport.Linear {
	unit := v.scale * CellWidth
	return viewport.Linear{
		Origin: center,
		Offset: geo.Point{X: float64(v.width*CellWidth) / 2, Y: float64(v.height*CellHeight) / 2},
		ScaleX: unit,
		ScaleY: unit,
	}
}

func (v *Viewport) reproject() {
	v.SetProjection(v.projection(v.Center()))
	v.Invalidate()
}

// Resize updates the screen size, keeping the centre.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	v.width, v.height = width, height
	v.mu.Unlock()
	v.reproject()
}

// SetScale changes the cells per degree of longitude.
func (v *Viewport) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	v.mu.Lock()
	v.scale = scale
	v.mu.Unlock()
	v.reproject()
}

// Zoom multiplies the scale by factor.
func (v *Viewport) Zoom(factor float64) {
	v.SetScale(v.Scale() * factor)
}

// Pan moves the centre by dx columns and dy rows.
func (v *Viewport) Pan(dx, dy int) {
	pt := v.Project(v.Center())
	pt.X += float64(dx * CellWidth)
	pt.Y += float64(dy * CellHeight)
	v.SetCenter(v.Unproject(pt))
	v.reproject()
}

// SetStatus sets the text of the bottom line.
func (v *Viewport) SetStatus(s string) {
	v.mu.Lock()
	v.status = s
	v.mu.Unlock()
	v.Invalidate()
}

// Status returns the text of the bottom line.
func (v *Viewport) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// CellOf returns the cell containing a screen point.
func CellOf(pt geo.Point) (x, y int) {
	return floorDiv(pt.X, CellWidth), floorDiv(pt.Y, CellHeight)
}

// CellCenter returns the screen point at the centre of a cell.
func CellCenter(x, y int) geo.Point {
	return geo.Point{
		X: float64(x*CellWidth) + CellWidth/2,
		Y: float64(y*CellHeight) + CellHeight/2,
	}
}

// PositionAt returns the position at the centre of a cell.
func (v *Viewport) PositionAt(x, y int) geo.Position {
	return v.Unproject(CellCenter(x, y))
}

func floorDiv(f float64, d int) int {
	return int(math.Floor(f / float64(d)))
}
