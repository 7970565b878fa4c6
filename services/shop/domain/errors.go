package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the shop domain. Use errors.Is() to check these.
// The typed errors below unwrap to one of these so callers that only need
// the category never have to type-assert.
var (
	// ErrValidation indicates a required field is missing or a value is outside its domain.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition indicates a job status change the state machine does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPrecondition indicates a dependent operation was attempted before its gate held.
	ErrPrecondition = errors.New("precondition failed")

	// ErrDuplicateNumber indicates a generated job or invoice number collided with an existing one.
	ErrDuplicateNumber = errors.New("duplicate number")

	// ErrInsufficientStock indicates a usage would take an item's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStorage indicates the persistence layer failed.
	ErrStorage = errors.New("storage failure")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError identifies the record kind and identifier that is missing.
type NotFoundError struct {
	Kind string
	ID   int64
}

// NewNotFoundError returns a *NotFoundError for the given kind and id.
func NewNotFoundError(kind string, id int64) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidTransitionError carries the job's current status and the requested one.
type InvalidTransitionError struct {
	JobID int64
	From  string
	To    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("job %d: cannot transition from %s to %s", e.JobID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// PreconditionError reports the status that blocked invoicing.
type PreconditionError struct {
	JobID  int64
	Status string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("job %d is %s, only completed jobs can be invoiced", e.JobID, e.Status)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// StorageError wraps a persistence failure with the operation that hit it.
// errors.Is matches both ErrStorage and the underlying driver error.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a *StorageError. Returns nil if err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }
