package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the acting user may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates that the resource changed underneath the caller,
// e.g. a conditional status update lost the race.
var ErrConflict = errors.New("conflict")

// ErrInternal is returned when an unexpected failure should not leak details.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewConflictError builds an AppError that matches ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// NewValidationFailedError builds an AppError that matches ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// ValidationErrors is a structured list of every problem found in an input,
// so callers can display all of them at once.
type ValidationErrors struct {
	Errors []string
}

func NewValidationErrors(errs ...string) *ValidationErrors {
	return &ValidationErrors{Errors: errs}
}

func (e *ValidationErrors) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(e.Errors, "; "))
}

func (e *ValidationErrors) Unwrap() error {
	return ErrValidation
}

// InvalidTransitionError is returned when a task event does not apply to the
// task's current status.
type InvalidTransitionError struct {
	TaskID string
	Status string
	Event  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s task %s: task is in status %s", e.Event, e.TaskID, e.Status)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrConflict
}

// AccessDeniedError is the error form of a negative access decision. Code is
// the decision code (not_found, forbidden, role_denied, invalid_id) and Reason
// is the human-readable explanation.
type AccessDeniedError struct {
	Code   string
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return "access denied: " + e.Reason
}

// Unwrap maps "not found" decisions onto ErrNotFound so callers can hide
// existence; every other denial is ErrForbidden.
func (e *AccessDeniedError) Unwrap() error {
	if e.Code == "not_found" || e.Code == "invalid_id" {
		return ErrNotFound
	}
	return ErrForbidden
}
