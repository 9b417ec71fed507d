package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced by the evaluation service.
var (
	// ErrInvalidRequest indicates a malformed submission: a missing prompt
	// or no recognized model identifiers. It is raised before any network
	// or store activity and maps to a 4xx response at the boundary.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownModel indicates that a requested model identifier has no
	// configured adapter. Within a mixed request it is recovered per-model
	// rather than failing the whole submission.
	ErrUnknownModel = errors.New("unknown model")
)

// StoreError represents a failure of the atomic experiment write.
// It is the one late-stage failure that still yields a caller-visible
// error for an otherwise successful submission.
type StoreError struct {
	// Operation names the store operation that failed.
	Operation string

	// Err is the underlying storage error. It is logged, never forwarded
	// to callers.
	Err error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: operation=%s, err=%v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As inspection.
func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError creates a StoreError for the given operation.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{Operation: operation, Err: err}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
