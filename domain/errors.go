package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across the client layers.
type ErrorCode string

const (
	ErrCodeValidation      ErrorCode = "VALIDATION"
	ErrCodeNetwork         ErrorCode = "NETWORK"
	ErrCodeAPI             ErrorCode = "API"
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
	ErrCodeDecode          ErrorCode = "DECODE"
	ErrCodeNotFoundLocal   ErrorCode = "NOT_FOUND_LOCAL"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal        ErrorCode = "INTERNAL"
)

// NetworkErrorMessage is shown whenever the backend cannot be reached.
const NetworkErrorMessage = "Network error: Could not connect to the server. Please make sure the backend is running."

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrTaskNotFoundLocal = NewError(ErrCodeNotFoundLocal, "task not found")
	ErrMissingToken      = NewError(ErrCodeInvalidResponse, "Invalid response format from server")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Message returns the user-facing message of err. For domain errors the
// wrapped cause is left out.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var dErr *Error
	if errors.As(err, &dErr) && dErr.Message != "" {
		return dErr.Message
	}
	return err.Error()
}
