package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the notification channel.
var (
	// ErrInvalidTopic is returned when a topic is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrSubscriptionNotFound is returned when trying to unsubscribe a non-existent subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrHandlerPanic is returned when a handler panics.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")
)

// HandlerError wraps an error from a handler with additional context.
type HandlerError struct {
	// SubscriptionID is the ID of the subscription whose handler failed.
	SubscriptionID string

	// Topic is the topic of the event being delivered.
	Topic string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return "handler error for subscription " + e.SubscriptionID + " on topic " + e.Topic + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic value as an error.
type PanicError struct {
	// SubscriptionID is the ID of the subscription whose handler panicked.
	SubscriptionID string

	// Topic is the topic of the event being delivered.
	Topic string

	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for subscription %s on topic %s: %v", e.SubscriptionID, e.Topic, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
