package pointer

import (
	"strings"
	"time"

	"github.com/dshills/geoedit/internal/geo"
)

// Button represents a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonPrimary is the left mouse button or a touch contact.
	ButtonPrimary
	// ButtonMiddle is the middle mouse button.
	ButtonMiddle
	// ButtonSecondary is the right mouse button.
	ButtonSecondary
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonMiddle:
		return "middle"
	case ButtonSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Action represents the raw pointer action reported by a host.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress is a button press or touch start.
	ActionPress
	// ActionRelease is a button release or touch end.
	ActionRelease
	// ActionMove is pointer movement, with or without a button held.
	ActionMove
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	default:
		return "none"
	}
}

// Modifier is a set of keyboard modifiers held during a pointer event.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key.
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is held.
func (m Modifier) HasShift() bool { return m.Has(ModShift) }

// HasCtrl returns true if Control is held.
func (m Modifier) HasCtrl() bool { return m.Has(ModCtrl) }

// HasAlt returns true if Alt is held.
func (m Modifier) HasAlt() bool { return m.Has(ModAlt) }

// HasMeta returns true if Meta is held.
func (m Modifier) HasMeta() bool { return m.Has(ModMeta) }

// String returns a human-readable representation like "Ctrl+Shift".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// Event represents a pointer input event.
type Event struct {
	// Screen is the pointer location in viewport screen coordinates.
	Screen geo.Point

	// Position is the geographic location under the pointer. The
	// Dispatcher fills it by unprojecting Screen; during a drag it is the
	// location of the dragged target's anchor instead.
	Position geo.Position

	// Button is the button involved.
	Button Button

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers Modifier

	// Action is the raw action.
	Action Action

	// Touch is true when the event comes from a touch contact.
	Touch bool

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Projector converts between screen points and geographic positions.
type Projector interface {
	Project(p geo.Position) geo.Point
	Unproject(pt geo.Point) geo.Position
}

// Config configures dispatcher behavior.
type Config struct {
	// DragThreshold is how far, in screen units, a press must move before
	// it becomes a drag instead of a click.
	DragThreshold float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DragThreshold: 3,
	}
}
