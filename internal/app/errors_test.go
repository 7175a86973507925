package app

import (
	"errors"
	"testing"
)

func TestInitError(t *testing.T) {
	inner := errors.New("boom")
	err := &InitError{Component: "script", Err: inner}

	if got, want := err.Error(), "failed to initialize script: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is did not find the wrapped error")
	}
}

func TestActionError(t *testing.T) {
	tests := []struct {
		name string
		err  *ActionError
		want string
	}{
		{"nil", nil, ""},
		{"action only", &ActionError{Action: "draw.hole"}, "draw.hole"},
		{"wrapped", &ActionError{Action: "draw.hole", Err: ErrNoFeature}, "draw.hole: no current feature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	if !errors.Is(&ActionError{Action: "x", Err: ErrNoFeature}, ErrNoFeature) {
		t.Error("errors.Is did not unwrap ActionError")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	if list.AsError() != nil {
		t.Error("empty list should not be an error")
	}

	list.Add(nil)
	list.Add(ErrNoFeature)
	if list.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", list.Len())
	}
	if list.Error() != ErrNoFeature.Error() {
		t.Errorf("Error() = %q", list.Error())
	}

	list.Add(ErrNotDrawing)
	err := list.AsError()
	if err == nil {
		t.Fatal("AsError() = nil")
	}
	if got, want := err.Error(), "2 errors: first: no current feature"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotDrawing) {
		t.Error("errors.Is did not search the list")
	}
}
