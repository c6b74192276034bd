package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError is a client-side rejection raised before any request is
// sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Required rejects a blank value for field.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, field+" is required")
	}
	return nil
}
