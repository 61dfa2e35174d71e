package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for post operations
var (
	// ErrNotFound is returned when a post ID has no live post
	ErrNotFound = errors.New("post not found")

	// ErrCommentNotFound is returned when a comment ID is absent from its post
	ErrCommentNotFound = errors.New("comment not found")

	// ErrForbidden is returned when the authorization gate denies a mutation
	ErrForbidden = errors.New("not authorized")

	// ErrAuthRequired is returned when an operation is called without an actor
	ErrAuthRequired = errors.New("authentication required")

	// ErrPersistence matches every PersistenceError via errors.Is
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// PersistenceError wraps a store failure (unavailable, write conflict).
// The engine never retries these: a retried append could duplicate a comment.
type PersistenceError struct {
	Err error
	Op  string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPersistence) match any PersistenceError
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// IsNotFound checks if error means the post or comment does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCommentNotFound)
}

// IsForbidden checks if error is an authorization denial
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsPersistenceError checks if error is a store failure
func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// wrapStoreError passes domain errors through and classifies everything else
// as a persistence failure
func wrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsValidationError(err) || IsPersistenceError(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
