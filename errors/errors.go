// Package errors provides unified error handling for the audio-relay service.
// It implements structured error types with machine-readable codes and
// retryable detection so callers can distinguish recoverable conditions
// (bad input on one frame) from fatal ones (transport loss).
package errors

import (
	"errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// CodeOf extracts the ErrorCode from an error chain, or ErrCodeInternal
// if the chain contains no AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// MessageOf extracts the human-readable message from an error chain,
// falling back to err.Error() when the chain contains no AppError.
// Used for error replies sent to clients, which should not leak codes
// or internal causes.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// --- Common Error Constructors ---

// Validation creates a new AppError for a payload that failed policy checks.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message, Retryable: false,
	}
}

// Decode creates a new AppError for a bus envelope that could not be decoded.
func Decode(what string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecode, Message: fmt.Sprintf("failed to decode %s envelope", what),
		Retryable: false, Cause: cause,
		Details: map[string]any{"envelope": what},
	}
}

// Bus creates a new AppError for a failed publish or subscribe operation.
func Bus(operation, topic string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBus, Message: fmt.Sprintf("bus %s on topic %q failed", operation, topic),
		Retryable: true, Cause: cause,
		Details: map[string]any{"operation": operation, "topic": topic},
	}
}

// Transport creates a new AppError for a failed connection operation.
func Transport(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransport, Message: fmt.Sprintf("connection %s failed", operation),
		Retryable: false, Cause: cause,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates a new AppError for an unexpected internal failure.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: message, Retryable: false, Cause: cause,
	}
}
