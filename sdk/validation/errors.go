package validation

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every ValidationError via errors.Is.
//
// Example:
//
//	if err := cms.SetSoftwareName("Joomla"); errors.Is(err, validation.ErrInvalid) {
//	    // rejected locally, nothing was sent
//	}
var ErrInvalid = errors.New("validation failed")

// Constraint names reported in ValidationError.Constraint.
const (
	ConstraintNotNull   = "not_null"
	ConstraintMaxLength = "max_length"
	ConstraintPattern   = "pattern"
	ConstraintValueIn   = "value_in"
	ConstraintValuesIn  = "values_in"
	ConstraintUnique    = "unique"
	ConstraintPath      = "path"
	ConstraintEndsWith  = "ends_with"
	ConstraintRequired  = "required"
	ConstraintType      = "type"
)

// ValidationError describes the first constraint a field value violated.
type ValidationError struct {
	// Field is the canonical wire name of the field
	Field string
	// Constraint is one of the Constraint* names
	Constraint string
	// Value is the rejected value as it was passed in
	Value any
	// Message is a human-readable description
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is implements errors.Is
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// NewError builds a ValidationError with a formatted message.
func NewError(field, constraint string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:      field,
		Constraint: constraint,
		Value:      value,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Required reports a field missing from a model where an operation needs it.
func Required(field string) *ValidationError {
	return NewError(field, ConstraintRequired, nil, "field is required")
}

// AsValidationError unwraps err into a *ValidationError when it carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
