package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownKey indicates a key that no setting is defined for.
	ErrUnknownKey = errors.New("unknown setting")

	// ErrTypeMismatch indicates the value type doesn't match the setting.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidValue indicates a value outside the setting's range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrWatcherClosed indicates the watcher has been closed.
	ErrWatcherClosed = errors.New("watcher closed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// SettingError reports a setting that could not be applied.
type SettingError struct {
	// Key is the dotted setting key, e.g. "editing.vertex_size".
	Key string
	// Source names where the value came from (a file path or "env").
	Source string
	// Err is ErrUnknownKey, ErrTypeMismatch or ErrInvalidValue, possibly
	// wrapped with detail.
	Err error
}

// Error implements the error interface.
func (e *SettingError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s (%s): %v", e.Key, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *SettingError) Unwrap() error {
	return e.Err
}
