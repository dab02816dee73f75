// Package errors defines the error kinds surfaced by storefront operations.
// Handlers translate these into HTTP responses; anything else is reported as
// an internal error.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound        = stderrors.New("not found")
	ErrEmptyCart       = stderrors.New("no items in cart")
	ErrInvalidPage     = stderrors.New("invalid page")
	ErrForbidden       = stderrors.New("access is denied")
	ErrUnauthorized    = stderrors.New("authentication required")
	ErrAddressNotFound = fmt.Errorf("no shipping address with that ID: %w", ErrNotFound)
)

// ValidationError reports malformed input. Details holds per-field messages
// when more than one field failed.
type ValidationError struct {
	Field   string              `json:"field,omitempty"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// NewValidationError creates a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: map[string][]string{field: {message}},
	}
}

// FieldErrors accumulates validation failures across several fields.
type FieldErrors map[string][]string

// Add records a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Err returns nil when nothing was recorded, else a ValidationError
// carrying every field's messages. A single failing field is reported the
// same way NewValidationError would.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	if len(f) == 1 {
		for field, msgs := range f {
			return &ValidationError{Field: field, Message: msgs[0], Details: map[string][]string(f)}
		}
	}
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return &ValidationError{
		Message: "invalid fields: " + strings.Join(fields, ", "),
		Details: map[string][]string(f),
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// AsValidation returns the ValidationError in err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if stderrors.As(err, &v) {
		return v, true
	}
	return nil, false
}
