// Package errors provides structured error types for hyperkey.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Grouping of codes into the categories callers actually branch on
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into four categories (see [Category]):
//   - Precondition violations: malformed arguments (INVALID_*, OUT_OF_RANGE, TOO_LARGE)
//   - Infeasible degree sequences: DEGREE_TOO_LARGE, NOT_DIVISIBLE
//   - Degree underflow: an edge removal against a zero counter
//   - Cancellation: a search stopped by its context
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfRange, "rank %d not in [0, %d)", r, n)
//	if errors.Is(err, errors.ErrCodeOutOfRange) {
//	    // Handle validation error
//	}
//
//	if errors.CategoryOf(err) == errors.CategoryInfeasible {
//	    // The degree sequence can never be realized
//	}
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Precondition violations
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidEdge      Code = "INVALID_EDGE"
	ErrCodeOutOfRange       Code = "OUT_OF_RANGE"
	ErrCodeTooLarge         Code = "TOO_LARGE"

	// Infeasible degree sequences
	ErrCodeDegreeTooLarge Code = "DEGREE_TOO_LARGE"
	ErrCodeNotDivisible   Code = "NOT_DIVISIBLE"

	// Search bookkeeping
	ErrCodeDegreeUnderflow Code = "DEGREE_UNDERFLOW"
	ErrCodeCancelled       Code = "CANCELLED"

	// Configuration and I/O
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeNotFound      Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Category groups codes by how a caller is expected to react.
type Category int

const (
	// CategoryOther covers configuration, I/O and internal failures.
	CategoryOther Category = iota
	// CategoryPrecondition is a malformed argument. Fatal, no partial work.
	CategoryPrecondition
	// CategoryInfeasible is a degree sequence that can never be realized.
	CategoryInfeasible
	// CategoryUnderflow is a removal against an already-zero degree.
	CategoryUnderflow
	// CategoryCancelled is a cooperative stop requested through a context.
	CategoryCancelled
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPrecondition:
		return "PreconditionViolation"
	case CategoryInfeasible:
		return "InfeasibleDegreeSequence"
	case CategoryUnderflow:
		return "DegreeUnderflow"
	case CategoryCancelled:
		return "OperationCancelled"
	default:
		return "Other"
	}
}

// Category returns the category the code belongs to.
func (c Code) Category() Category {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidDimension, ErrCodeInvalidEdge,
		ErrCodeOutOfRange, ErrCodeTooLarge:
		return CategoryPrecondition
	case ErrCodeDegreeTooLarge, ErrCodeNotDivisible:
		return CategoryInfeasible
	case ErrCodeDegreeUnderflow:
		return CategoryUnderflow
	case ErrCodeCancelled:
		return CategoryCancelled
	default:
		return CategoryOther
	}
}

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

// Cancelled wraps a context error as a CANCELLED error. The context error
// stays reachable, so errors.Is(err, context.Canceled) keeps working.
func Cancelled(ctx context.Context) *Error {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = context.Canceled
	}
	return Wrap(ErrCodeCancelled, cause, "operation cancelled")
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

// CategoryOf returns the category of the outermost *Error in err's chain.
func CategoryOf(err error) Category {
	return GetCode(err).Category()
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
