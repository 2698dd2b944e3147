// Package errors provides structured error types for depscope.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across all engine stages
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes map to the engine's failure taxonomy:
//   - PARSE_ERROR: a registry record could not be decoded (fatal for the load)
//   - SYNTH_ERROR: a descriptor field could not be synthesized for one version
//   - UNKNOWN_RESOLUTION_FAILURE: a resolver diagnostic matched no known kind
//   - STORE_ERROR: a cache or persistence backend failed
//   - INVALID_INPUT / NOT_FOUND: caller-facing validation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "invalid record in %s", path)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // handle parse failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "persisting lockfile for %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the engine's failure taxonomy.
const (
	// ErrCodeParse marks a malformed registry record or version string.
	// Parse failures abort the whole index load; no partial index is produced.
	ErrCodeParse Code = "PARSE_ERROR"

	// ErrCodeSynth marks a package-version whose descriptor could not be
	// synthesized (unparsable platform predicate or minimum-version string).
	// Attributable to one package-version; never aborts unrelated work.
	ErrCodeSynth Code = "SYNTH_ERROR"

	// ErrCodeUnknownResolution marks a resolver diagnostic that matched no
	// entry of the failure taxonomy. Escalated to run-fatal so the taxonomy
	// stays exhaustive.
	ErrCodeUnknownResolution Code = "UNKNOWN_RESOLUTION_FAILURE"

	// ErrCodeStore marks a failure in a cache or persistence backend.
	ErrCodeStore Code = "STORE_ERROR"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"
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
