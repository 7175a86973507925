package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultEnvPrefix prefixes every environment variable read by Load.
const DefaultEnvPrefix = "GEOEDIT_"

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Loader reads a TOML file and the environment into a Config.
type Loader struct {
	fs        FileSystem
	path      string
	envPrefix string
	lookupEnv func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the file system the config file is read from.
func WithFS(fsys FileSystem) LoaderOption {
	return func(l *Loader) { l.fs = fsys }
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) LoaderOption {
	return func(l *Loader) { l.lookupEnv = fn }
}

// NewLoader creates a loader for the file at path. An empty path skips the
// file layer.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:        OSFS{},
		path:      path,
		envPrefix: DefaultEnvPrefix,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the config file path.
func (l *Loader) Path() string { return l.path }

// Load builds a Config from defaults, the file (if it exists) and the
// environment, then validates it.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := l.readFile()
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := cfg.apply(data, l.path); err != nil {
			return nil, err
		}
	}

	if err := cfg.apply(l.readEnv(), "env"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile returns the decoded file, or nil when there is no file.
func (l *Loader) readFile() (map[string]any, error) {
	if l.path == "" {
		return nil, nil
	}
	raw, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return Parse(l.path, raw)
}

// Parse decodes TOML data. source names the data in errors.
func Parse(source string, raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := toml.Unmarshal(raw, &data); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return data, nil
}

// readEnv collects the variables named after known keys.
func (l *Loader) readEnv() map[string]any {
	data := make(map[string]any)
	if l.envPrefix == "" {
		return data
	}
	for _, key := range Keys() {
		if v, ok := l.lookupEnv(EnvName(l.envPrefix, key)); ok {
			setByPath(data, key, v)
		}
	}
	return data
}

// EnvName returns the environment variable for key, e.g.
// GEOEDIT_EDITING_VERTEX_SIZE for editing.vertex_size.
func EnvName(prefix, key string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// Load reads path with the default loader.
func Load(path string) (*Config, error) {
	return NewLoader(path).Load()
}
