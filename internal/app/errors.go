package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoFeature indicates a binding needs a current feature and there
	// is none.
	ErrNoFeature = errors.New("no current feature")

	// ErrNotDrawing indicates a binding needs an active drawer.
	ErrNotDrawing = errors.New("not drawing")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ActionError represents an error from a key binding.
type ActionError struct {
	Action string // Binding name (e.g., "draw.hole")
	Err    error  // Underlying error
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Action
	}
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorList collects multiple errors.
// NOTE: ErrorList is NOT safe for concurrent use.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// Len returns the number of errors.
func (e *ErrorList) Len() int {
	return len(e.errors)
}

// Error returns a combined error message.
func (e *ErrorList) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
}

// Unwrap returns the collected errors for errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	return e.errors
}

// AsError returns nil if there are no errors, otherwise returns the ErrorList.
func (e *ErrorList) AsError() error {
	if e.Len() == 0 {
		return nil
	}
	return e
}
