// services/errors.go
package services

import "fmt"

// Business-rule violations are raised as typed errors at the point of
// detection and translated once, centrally, into the HTTP envelope.

// ValidationError covers missing/invalid input: bad enum values, inverted
// date ordering, past-dated appointments, overpayment amounts.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers referenced entities that do not resolve.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError covers double-booking and duplicate active names.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// StateError covers disallowed status transitions and edits on finalized
// records.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

func NewStateError(format string, args ...interface{}) *StateError {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}
