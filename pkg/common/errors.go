package common

import (
	"fmt"
	"net/http"
)

// AppError is the error type returned by service-layer operations. It carries
// an HTTP status code so handlers can translate it without a type switch per
// error kind.
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates an AppError for a missing resource
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		StatusCode: http.StatusNotFound,
		Code:       "not_found",
		Message:    message,
		Err:        err,
	}
}

// NewBadRequestError creates an AppError for an invalid request
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       "bad_request",
		Message:    message,
		Err:        err,
	}
}

// NewForbiddenError creates an AppError for an access violation
func NewForbiddenError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusForbidden,
		Code:       "forbidden",
		Message:    message,
	}
}

// NewUnauthorizedError creates an AppError for a missing or invalid identity
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusUnauthorized,
		Code:       "unauthorized",
		Message:    message,
	}
}

// NewConflictError creates an AppError for an operation that conflicts with
// the current state of the resource, such as a disallowed status transition.
func NewConflictError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusConflict,
		Code:       "conflict",
		Message:    message,
	}
}

// NewInternalServerError creates an AppError for an unexpected failure
func NewInternalServerError(message string) *AppError {
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    message,
	}
}
