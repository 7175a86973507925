package config

import (
	"io"

	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/logging"
)

// EditableOptions returns the session options described by the editing
// section.
func (c *Config) EditableOptions() []editable.Option {
	e := c.Editing
	return []editable.Option{
		editable.WithVertexSize(e.VertexSize, e.TouchVertexSize),
		editable.WithDrawingClass(e.DrawingClass),
		editable.WithHandleClasses(e.VertexClass, e.MiddleClass, e.PendingClass),
		editable.WithGuideClass(e.GuideClass),
		editable.WithZIndex(e.VertexZIndex, e.MiddleZIndex),
		editable.WithMiddleOpacity(e.MiddleOpacity),
		editable.WithHitTolerance(e.HitTolerance, e.TouchHitTolerance),
	}
}

// PointerConfig returns the input dispatcher configuration.
func (c *Config) PointerConfig() pointer.Config {
	cfg := pointer.DefaultConfig()
	cfg.DragThreshold = c.Input.DragThreshold
	return cfg
}

// LoggingConfig returns the logger configuration writing to out.
func (c *Config) LoggingConfig(out io.Writer) logging.Config {
	return logging.Config{
		Level:  c.LogLevel(),
		Format: c.LogFormat(),
		Output: out,
	}
}
