package builder

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrMissingRequiredAttribute = errors.New("erpcall: missing required attribute")
	ErrConflictingAssignment    = errors.New("erpcall: conflicting assignment")
	ErrUnknownColumn            = errors.New("erpcall: unknown column")
	ErrMalformedValue           = errors.New("erpcall: malformed value")

	// ErrAlreadyBuilt is returned by Add or Build once a builder has been
	// consumed.
	ErrAlreadyBuilt = errors.New("erpcall: call already built")
)

// MissingRequiredAttributeError reports a required column that was never
// bound to a value.
type MissingRequiredAttributeError struct {
	Column    string
	Attribute string // attribute the caller should have supplied
}

func (e *MissingRequiredAttributeError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("erpcall: missing required attribute %s (column %s)", e.Attribute, e.Column)
	}
	return fmt.Sprintf("erpcall: missing required attribute for column %s", e.Column)
}

func (e *MissingRequiredAttributeError) Is(err error) bool {
	return err == ErrMissingRequiredAttribute
}

// NewMissingRequiredAttributeError returns a MissingRequiredAttributeError.
func NewMissingRequiredAttributeError(column, attribute string) *MissingRequiredAttributeError {
	return &MissingRequiredAttributeError{Column: column, Attribute: attribute}
}

// IsMissingRequiredAttribute reports whether err is a MissingRequiredAttributeError.
func IsMissingRequiredAttribute(err error) bool {
	var e *MissingRequiredAttributeError
	return errors.As(err, &e)
}

// ConflictingAssignmentError reports two different assignments for the
// same column. Old and New are already rendered; secrets are redacted.
type ConflictingAssignmentError struct {
	Column string
	Old    string
	New    string
}

func (e *ConflictingAssignmentError) Error() string {
	return fmt.Sprintf("erpcall: conflicting assignment for column %s: cannot replace %s with %s", e.Column, e.Old, e.New)
}

func (e *ConflictingAssignmentError) Is(err error) bool {
	return err == ErrConflictingAssignment
}

// IsConflictingAssignment reports whether err is a ConflictingAssignmentError.
func IsConflictingAssignment(err error) bool {
	var e *ConflictingAssignmentError
	return errors.As(err, &e)
}

// UnknownColumnError reports a column the table does not define.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("erpcall: unknown column %s", e.Column)
}

func (e *UnknownColumnError) Is(err error) bool {
	return err == ErrUnknownColumn
}

// IsUnknownColumn reports whether err is an UnknownColumnError.
func IsUnknownColumn(err error) bool {
	var e *UnknownColumnError
	return errors.As(err, &e)
}

// MalformedValueError reports an attribute value that could not be coerced
// to its column type.
type MalformedValueError struct {
	Column string
	Raw    any
	Err    error
}

func (e *MalformedValueError) Error() string {
	msg := fmt.Sprintf("erpcall: malformed value %v for column %s", e.Raw, e.Column)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedValueError) Unwrap() error {
	return e.Err
}

func (e *MalformedValueError) Is(err error) bool {
	return err == ErrMalformedValue
}

// IsMalformedValue reports whether err is a MalformedValueError.
func IsMalformedValue(err error) bool {
	var e *MalformedValueError
	return errors.As(err, &e)
}
