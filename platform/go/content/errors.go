package content

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every content kind.
var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrConflict     = errors.New("conflict")
)

// NotFoundError names the kind whose document is missing. It matches ErrNotFound.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Store operations reported by StoreError.
const (
	OpFetch  = "fetch"
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
)

// StoreError wraps an adapter failure into a user-safe message. The cause is kept for logging only.
type StoreError struct {
	Op   string
	Kind string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("Failed to %s %s", e.Op, e.Kind)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// Add records a message for field.
func (f FieldErrors) Add(field, message string) {
	if f == nil {
		return
	}
	f[field] = append(f[field], message)
}

// ValidationError is returned when the input payload is invalid. No store call has been made.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// NewValidationError builds a ValidationError with a single message per field.
func NewValidationError(fields map[string]string) error {
	fe := FieldErrors{}
	for key, message := range fields {
		fe.Add(key, message)
	}
	return &ValidationError{Fields: fe}
}

// AccessDeniedError explains a refused entitlement. It matches ErrAccessDenied.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return e.Reason
}

func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}
