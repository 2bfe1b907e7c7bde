package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyHistory signals a request without any status history entry; this
// is a data integrity problem since every request is created with one entry.
var ErrEmptyHistory = errors.New("request has an empty status history")

// NotFoundError is an error signaling that something was not found in the
// database
type NotFoundError string

// Error implements the error interface
func (e NotFoundError) Error() string {
	return string(e)
}

// NotFoundErrorFmt returns a NotFoundError from the passed format string and parameters
func NotFoundErrorFmt(format string, params ...any) NotFoundError {
	return NotFoundError(fmt.Sprintf(format, params...))
}

// AlreadyExistsError is an error signaling that something already exists in
// the database
type AlreadyExistsError string

// Error implements the error interface
func (e AlreadyExistsError) Error() string {
	return string(e)
}

// AlreadyExistsErrorFmt returns an AlreadyExistsError from the passed format string and parameters
func AlreadyExistsErrorFmt(format string, params ...any) AlreadyExistsError {
	return AlreadyExistsError(fmt.Sprintf(format, params...))
}

// ValidationError signals invalid input, e.g. a missing required field or a
// status outside of the allowed set. Nothing was changed.
type ValidationError struct {
	Message string
	Allowed []string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	if len(e.Allowed) == 0 {
		return e.Message
	}
	return e.Message + "; allowed values: " + strings.Join(e.Allowed, ", ")
}

// PersistenceError wraps an unexpected failure of the database
type PersistenceError struct {
	Err error
}

// Error implements the error interface
func (e PersistenceError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e PersistenceError) Unwrap() error {
	return e.Err
}
