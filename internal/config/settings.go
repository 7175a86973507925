package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// setting binds a dotted key to a Config field.
type setting struct {
	key   string
	apply func(c *Config, v any) error
}

var settings = []setting{
	stringSetting("logging.level", func(c *Config) *string { return &c.Logging.Level }),
	stringSetting("logging.format", func(c *Config) *string { return &c.Logging.Format }),

	floatSetting("editing.vertex_size", func(c *Config) *float64 { return &c.Editing.VertexSize }),
	floatSetting("editing.touch_vertex_size", func(c *Config) *float64 { return &c.Editing.TouchVertexSize }),
	stringSetting("editing.drawing_class", func(c *Config) *string { return &c.Editing.DrawingClass }),
	stringSetting("editing.vertex_class", func(c *Config) *string { return &c.Editing.VertexClass }),
	stringSetting("editing.middle_class", func(c *Config) *string { return &c.Editing.MiddleClass }),
	stringSetting("editing.pending_class", func(c *Config) *string { return &c.Editing.PendingClass }),
	stringSetting("editing.guide_class", func(c *Config) *string { return &c.Editing.GuideClass }),
	intSetting("editing.vertex_z_index", func(c *Config) *int { return &c.Editing.VertexZIndex }),
	intSetting("editing.middle_z_index", func(c *Config) *int { return &c.Editing.MiddleZIndex }),
	floatSetting("editing.middle_opacity", func(c *Config) *float64 { return &c.Editing.MiddleOpacity }),
	floatSetting("editing.hit_tolerance", func(c *Config) *float64 { return &c.Editing.HitTolerance }),
	floatSetting("editing.touch_hit_tolerance", func(c *Config) *float64 { return &c.Editing.TouchHitTolerance }),

	floatSetting("input.drag_threshold", func(c *Config) *float64 { return &c.Input.DragThreshold }),
	boolSetting("input.touch", func(c *Config) *bool { return &c.Input.Touch }),

	floatSetting("terminal.scale", func(c *Config) *float64 { return &c.Terminal.Scale }),
	floatSetting("terminal.center_lat", func(c *Config) *float64 { return &c.Terminal.CenterLat }),
	floatSetting("terminal.center_lng", func(c *Config) *float64 { return &c.Terminal.CenterLng }),

	stringSetting("script.path", func(c *Config) *string { return &c.Script.Path }),
}

// Keys returns every setting key, sorted.
func Keys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	sort.Strings(keys)
	return keys
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// Set applies a single value by key. Strings are parsed for numeric and
// boolean settings.
func (c *Config) Set(key string, v any) error {
	s, ok := lookupSetting(key)
	if !ok {
		return &SettingError{Key: key, Err: ErrUnknownKey}
	}
	if err := s.apply(c, v); err != nil {
		return &SettingError{Key: key, Err: err}
	}
	return nil
}

// apply sets every value of a nested section map, as produced by decoding
// TOML, reporting the first failure.
func (c *Config) apply(data map[string]any, source string) error {
	for _, key := range flatten("", data) {
		if err := c.Set(key.path, key.value); err != nil {
			if se, ok := err.(*SettingError); ok {
				se.Source = source
			}
			return err
		}
	}
	return nil
}

type flatValue struct {
	path  string
	value any
}

// flatten turns nested maps into dotted keys, sorted for stable errors.
func flatten(prefix string, data map[string]any) []flatValue {
	var out []flatValue
	for k, v := range data {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			out = append(out, flatten(path, m)...)
			continue
		}
		out = append(out, flatValue{path: path, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

func stringSetting(key string, field func(*Config) *string) setting {
	return setting{key: key, apply: func(c *Config, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, v)
		}
		*field(c) = s
		return nil
	}}
}

func floatSetting(key string, field func(*Config) *float64) setting {
	return setting{key: key, apply: func(c *Config, v any) error {
		var f float64
		switch x := v.(type) {
		case float64:
			f = x
		case int64:
			f = float64(x)
		case int:
			f = float64(x)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, x)
			}
			f = parsed
		default:
			return fmt.Errorf("%w: want number, got %T", ErrTypeMismatch, v)
		}
		*field(c) = f
		return nil
	}}
}

func intSetting(key string, field func(*Config) *int) setting {
	return setting{key: key, apply: func(c *Config, v any) error {
		var n int
		switch x := v.(type) {
		case int64:
			n = int(x)
		case int:
			n = x
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, x)
			}
			n = parsed
		default:
			return fmt.Errorf("%w: want integer, got %T", ErrTypeMismatch, v)
		}
		*field(c) = n
		return nil
	}}
}

func boolSetting(key string, field func(*Config) *bool) setting {
	return setting{key: key, apply: func(c *Config, v any) error {
		var b bool
		switch x := v.(type) {
		case bool:
			b = x
		case string:
			switch strings.ToLower(strings.TrimSpace(x)) {
			case "true", "yes", "on", "1":
				b = true
			case "false", "no", "off", "0", "":
				b = false
			default:
				return fmt.Errorf("%w: %q is not a boolean", ErrTypeMismatch, x)
			}
		default:
			return fmt.Errorf("%w: want boolean, got %T", ErrTypeMismatch, v)
		}
		*field(c) = b
		return nil
	}}
}
