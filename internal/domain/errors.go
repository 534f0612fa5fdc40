package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrIndexNotBuilt signals a search before any index generation was promoted.
	ErrIndexNotBuilt = errors.New("index not built")
	// ErrUnknownField signals a field that is not declared in the document schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidQuery signals query options that cannot be compiled.
	ErrInvalidQuery = errors.New("invalid query")
)

// UnknownFieldError wraps ErrUnknownField with the offending field and its role.
type UnknownFieldError struct {
	Field string
	Role  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: %q is not a %s field", ErrUnknownField.Error(), e.Field, e.Role)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// NewUnknownField creates an unknown field error.
func NewUnknownField(field, role string) error {
	return &UnknownFieldError{Field: field, Role: role}
}
