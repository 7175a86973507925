package config

import (
	"fmt"
	"strings"

	"github.com/dshills/geoedit/internal/logging"
)

// Config holds every geoedit setting.
type Config struct {
	Logging  LoggingSection
	Editing  EditingSection
	Input    InputSection
	Terminal TerminalSection
	Script   ScriptSection
}

// LoggingSection configures the logger.
type LoggingSection struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is text or json.
	Format string
}

// EditingSection configures editing sessions.
type EditingSection struct {
	VertexSize      float64
	TouchVertexSize float64

	DrawingClass string
	VertexClass  string
	MiddleClass  string
	PendingClass string
	GuideClass   string

	VertexZIndex int
	MiddleZIndex int

	MiddleOpacity float64

	HitTolerance      float64
	TouchHitTolerance float64
}

// InputSection configures pointer handling.
type InputSection struct {
	// DragThreshold is the distance, in screen units, a press must travel
	// before it becomes a drag.
	DragThreshold float64
	// Touch selects touch handle sizes and tap routing.
	Touch bool
}

// TerminalSection configures the terminal host.
type TerminalSection struct {
	// Scale is the number of terminal cells per degree of longitude.
	Scale     float64
	CenterLat float64
	CenterLng float64
}

// ScriptSection configures Lua scripting.
type ScriptSection struct {
	// Path is a Lua file run at startup. Empty disables scripting.
	Path string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingSection{
			Level:  "info",
			Format: "text",
		},
		Editing: EditingSection{
			VertexSize:        8,
			TouchVertexSize:   20,
			DrawingClass:      "editable-drawing",
			VertexClass:       "editable-vertex",
			MiddleClass:       "editable-middle",
			PendingClass:      "editable-pending",
			GuideClass:        "editable-guide",
			VertexZIndex:      10001,
			MiddleZIndex:      10000,
			MiddleOpacity:     0.5,
			HitTolerance:      2.5,
			TouchHitTolerance: 12.5,
		},
		Input: InputSection{
			DragThreshold: 3,
		},
		Terminal: TerminalSection{
			Scale: 2,
		},
	}
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	checks := []struct {
		key string
		ok  bool
		msg string
	}{
		{"logging.level", validLevel(c.Logging.Level), "must be debug, info, warn or error"},
		{"logging.format", c.Logging.Format == "text" || c.Logging.Format == "json", "must be text or json"},
		{"editing.vertex_size", c.Editing.VertexSize > 0, "must be positive"},
		{"editing.touch_vertex_size", c.Editing.TouchVertexSize > 0, "must be positive"},
		{"editing.vertex_z_index", c.Editing.VertexZIndex > c.Editing.MiddleZIndex, "must be above editing.middle_z_index"},
		{"editing.middle_opacity", c.Editing.MiddleOpacity >= 0 && c.Editing.MiddleOpacity <= 1, "must be between 0 and 1"},
		{"editing.hit_tolerance", c.Editing.HitTolerance >= 0, "must not be negative"},
		{"editing.touch_hit_tolerance", c.Editing.TouchHitTolerance >= 0, "must not be negative"},
		{"input.drag_threshold", c.Input.DragThreshold >= 0, "must not be negative"},
		{"terminal.scale", c.Terminal.Scale > 0, "must be positive"},
	}
	for _, check := range checks {
		if !check.ok {
			return &SettingError{Key: check.key, Err: fmt.Errorf("%w: %s", ErrInvalidValue, check.msg)}
		}
	}
	return nil
}

func validLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// LogFormat returns the configured logging format.
func (c *Config) LogFormat() logging.Format {
	if c.Logging.Format == "json" {
		return logging.FormatJSON
	}
	return logging.FormatText
}
