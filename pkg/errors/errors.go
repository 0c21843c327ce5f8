package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a required field is missing or malformed
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInvalidQuery indicates malformed search input
	ErrorTypeInvalidQuery ErrorType = "INVALID_QUERY"

	// ErrorTypeNotOwner indicates the caller does not own the resource
	ErrorTypeNotOwner ErrorType = "NOT_OWNER"

	// ErrorTypeUnavailable indicates the underlying data store is unreachable
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeInternal for plain errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries the given ErrorType.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInvalidQueryError creates a new invalid query error
func NewInvalidQueryError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidQuery,
		Message: message,
	}
}

// NewNotOwnerError creates a new not owner error
func NewNotOwnerError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotOwner,
		Message: message,
	}
}

// NewUnavailableError creates a new unavailable error
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}
