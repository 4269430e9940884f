package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// InvalidInputError represents malformed or constraint-violating input.
// Reason is safe to echo to the caller.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string {
	if e.Reason == "" {
		return "invalid input"
	}
	return e.Reason
}

// Is enables errors.Is matching on InvalidInputError.
func (e InvalidInputError) Is(target error) bool {
	_, ok := target.(InvalidInputError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidInputError)
	return ok
}

// ErrInvalidInput is the sentinel error for malformed input.
var ErrInvalidInput = InvalidInputError{}

var (
	// ErrUnauthorized covers every authentication failure. Missing
	// header, unknown token and dangling owner all collapse into it so
	// the response leaks nothing about which condition occurred.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the token was valid but the identity lacks the
	// required privilege.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicate is returned when a uniqueness constraint rejects a
	// write.
	ErrDuplicate = errors.New("duplicate value")

	// ErrInvalidCredentials is returned on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
