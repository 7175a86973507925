package script

import "errors"

// Sentinel errors for script execution.
var (
	// ErrClosed is returned when using a closed engine.
	ErrClosed = errors.New("script engine is closed")

	// ErrNoDriver is returned by input functions when the viewport cannot
	// be driven from a script.
	ErrNoDriver = errors.New("viewport does not accept scripted input")

	// ErrUnknownLayer is returned when a script names a feature that is
	// not shown.
	ErrUnknownLayer = errors.New("unknown layer")
)

// Error reports a failure inside a script chunk or a hook.
type Error struct {
	// Chunk names the chunk ("startup.lua") or hook ("hook editable.**").
	Chunk string

	// Err is the underlying Lua or Go error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "script " + e.Chunk + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
