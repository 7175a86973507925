package editable

import "errors"

// Sentinel errors for editing operations.
var (
	// ErrWrongKind is returned when an operation does not apply to the
	// editor's or feature's kind (e.g. backward drawing on a polygon).
	ErrWrongKind = errors.New("operation not supported for this feature kind")

	// ErrNotEnabled is returned when an operation requires editing to be
	// enabled on the feature.
	ErrNotEnabled = errors.New("editing is not enabled")

	// ErrNilLayer is returned when a nil feature is passed.
	ErrNilLayer = errors.New("layer cannot be nil")
)
