// Package domain_errors holds the error types shared by the post store and service.
package domain_errors

import (
	"errors"
	"fmt"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

var ErrImageNotFound = errors.New("image not found")

// ValidationError reports malformed or missing input on create. It matches
// custom_errors.ErrPostValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return custom_errors.ErrPostValidation
}

// StorageError reports that the backing store could not persist or read. It matches
// custom_errors.ErrDatabaseQuery as well as the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage failure during %s", e.Op)
	}
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{custom_errors.ErrDatabaseQuery}
	}
	return []error{custom_errors.ErrDatabaseQuery, e.Err}
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsStorage(err error) bool {
	var sErr *StorageError
	return errors.As(err, &sErr)
}
