package domain

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden       = errors.New("access forbidden")
	ErrTooManyAttempts = errors.New("too many login attempts")
	ErrEmailTaken      = errors.New("email already in use")
	ErrIdentityExists  = errors.New("identity already exists")
	ErrConflict        = errors.New("concurrent modification")
	ErrNotFound        = errors.New("not found")
)

// AuthErrorCode distinguishes why a credential check failed.
type AuthErrorCode string

const (
	AuthNotFound AuthErrorCode = "not_found"
	AuthMismatch AuthErrorCode = "mismatch"
)

// AuthenticationError is returned by the credential verifier.
type AuthenticationError struct {
	Code     AuthErrorCode
	Identity string
}

func (e *AuthenticationError) Error() string {
	switch e.Code {
	case AuthNotFound:
		return fmt.Sprintf("authentication failed: identity %q not found", e.Identity)
	case AuthMismatch:
		return fmt.Sprintf("authentication failed: credential mismatch for %q", e.Identity)
	default:
		return "authentication failed"
	}
}

// ValidationError carries a single human-readable message for the client.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a missing entity by id.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ProfileNotFound builds the NotFoundError used for profile lookups.
func ProfileNotFound(id int64) *NotFoundError {
	return &NotFoundError{Entity: "Profile", ID: id}
}
