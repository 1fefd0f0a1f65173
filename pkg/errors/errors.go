// Package errors provides structured error types for recipesync.
//
// This package defines error codes and types that enable:
//   - Categorized per-recipe failures in batch reports
//   - Machine-readable error codes in the JSON summary
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map onto the failure taxonomy of a synchronization run:
//   - UNSUPPORTED_SOURCE: no resolver claims the source URL
//   - NO_MATCHING_CANDIDATE: candidates existed but none matched the patterns
//   - NETWORK_ERROR, TIMEOUT, RATE_LIMITED: remote calls failed
//   - HASH_FAILED: the new archive could not be downloaded or hashed
//   - MALFORMED_DESCRIPTOR: required recipe fields are missing or mistyped
//   - AMBIGUOUS_SOURCE: several sources, only the first is authoritative
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedDescriptor, "missing context.version in %s", path)
//	if errors.Is(err, errors.ErrCodeMalformedDescriptor) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to list tags for %s", repo)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Resolution errors
	ErrCodeUnsupportedSource   Code = "UNSUPPORTED_SOURCE"
	ErrCodeNoMatchingCandidate Code = "NO_MATCHING_CANDIDATE"
	ErrCodeAmbiguousSource     Code = "AMBIGUOUS_SOURCE"

	// Descriptor errors
	ErrCodeMalformedDescriptor Code = "MALFORMED_DESCRIPTOR"
	ErrCodeInvalidInput        Code = "INVALID_INPUT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Mutation errors
	ErrCodeHashFailed  Code = "HASH_FAILED"
	ErrCodeWriteFailed Code = "WRITE_FAILED"

	// Internal errors
	ErrCodeInternal       Code = "INTERNAL_ERROR"
	ErrCodeNotImplemented Code = "NOT_IMPLEMENTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// CodeOr returns the error code of err, or fallback when err carries none.
func CodeOr(err error, fallback Code) Code {
	if c := GetCode(err); c != "" {
		return c
	}
	return fallback
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
