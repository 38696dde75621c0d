package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying tool failures. Handlers wrap or match
// these so the tool boundary can report each category uniformly without
// inspecting provider-specific error types.
//
//	return fmt.Errorf("failed to delete server: %w", domain.ErrConflict)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates the tool arguments were rejected before
	// any provider call was made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state conflict, such as an operation on a
	// resource that is locked by a running action.
	ErrConflict = errors.New("conflict")
)

// NotFoundError reports an identifier or name that did not resolve to a
// live resource. Its message is returned to the caller verbatim.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// Is makes NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFoundByID builds the error for a numeric ID lookup miss, e.g.
// "Server with ID 42 not found".
func NotFoundByID(kind string, id int64) error {
	return &NotFoundError{msg: fmt.Sprintf("%s with ID %d not found", kind, id)}
}

// NotFoundByName builds the error for a name lookup miss, e.g.
// "Location 'xyz1' not found".
func NotFoundByName(kind, name string) error {
	return &NotFoundError{msg: fmt.Sprintf("%s '%s' not found", kind, name)}
}

// NotFoundf builds a not-found error with a custom message.
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed or inconsistent tool input.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Is makes ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalidf builds a validation error.
func Invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
