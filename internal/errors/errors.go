package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an OpenClaw error code.
type ErrorCode string

const (
	ErrMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	ErrInvalidConfig     ErrorCode = "INVALID_CONFIG"
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrStreamFailed      ErrorCode = "STREAM_FAILED"
	ErrInternal          ErrorCode = "INTERNAL"
)

// OCError represents a structured error with code and details.
type OCError struct {
	Code    ErrorCode
	Message string
	Details map[string]any

	// cause is the wrapped error, if any
	cause error
}

// Error implements the error interface.
func (e *OCError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause so callers can use errors.Is/As on it.
func (e *OCError) Unwrap() error {
	return e.cause
}

// NewMissingCredential creates an error for a credential that must be
// configured before any network call is made.
// name is the human name ("GITHUB_TOKEN"), hint tells the user how to fix it.
func NewMissingCredential(name, hint string) *OCError {
	msg := fmt.Sprintf("%s not configured", name)
	if hint != "" {
		msg += ". " + hint
	}
	return &OCError{
		Code:    ErrMissingCredential,
		Message: msg,
		Details: map[string]any{"credential": name},
	}
}

// NewInvalidConfig creates an error for configuration that failed validation.
func NewInvalidConfig(msg string) *OCError {
	return &OCError{
		Code:    ErrInvalidConfig,
		Message: msg,
	}
}

// NewInvalidRequest creates an error for malformed tool or command input.
func NewInvalidRequest(msg string) *OCError {
	return &OCError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewStreamFailed wraps a transport failure raised while streaming an
// assistant reply.
func NewStreamFailed(err error) *OCError {
	msg := "assistant stream failed"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &OCError{
		Code:    ErrStreamFailed,
		Message: msg,
		cause:   err,
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *OCError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &OCError{
		Code:    ErrInternal,
		Message: msg,
		cause:   err,
	}
}

// Is checks if err (or anything it wraps) is an OCError with the given code.
func Is(err error, code ErrorCode) bool {
	var ocErr *OCError
	if stderrors.As(err, &ocErr) {
		return ocErr.Code == code
	}
	return false
}
