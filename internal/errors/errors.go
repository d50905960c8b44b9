// Package errors provides a typed error system for exit code handling.
//
// matrix-tpl distinguishes three classes of hard error so that callers can
// report them precisely, but every one of them terminates the process with
// the same exit status:
//   - UsageError: wrong arity, unknown subcommand, missing patch flag
//   - InputError: a mandatory input file is missing, unreadable or not UTF-8
//   - RuntimeError: anything else that stops a subcommand (write failures,
//     structure problems in a compose document, strict render failures)
//
// Example usage:
//
//	if _, err := os.Stat(path); err != nil {
//		return errors.NewInputError(path, "template file not found", err)
//	}
//
//	os.Exit(errors.GetExitCode(err))
package errors

import (
	"errors"
	"fmt"
)

const (
	// ExitOK is returned for a nil error.
	ExitOK = 0
	// ExitFailure is returned for every hard error.
	ExitFailure = 1
)

// UsageError represents a command-line usage mistake.
// No file has been touched when one is returned.
type UsageError struct {
	Message string
	Usage   string
}

// Error implements the error interface for UsageError.
func (e *UsageError) Error() string {
	if e.Usage != "" {
		return fmt.Sprintf("%s (usage: %s)", e.Message, e.Usage)
	}
	return e.Message
}

// InputError represents a missing or unreadable mandatory input file.
type InputError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface for InputError.
func (e *InputError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap implements the error unwrapping interface for error chain inspection.
func (e *InputError) Unwrap() error {
	return e.Cause
}

// RuntimeError represents a failure during execution.
type RuntimeError struct {
	Message string
	Cause   error
}

// Error implements the error interface for RuntimeError.
func (e *RuntimeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap implements the error unwrapping interface for error chain inspection.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// NewUsageError creates a UsageError. usage is the one-line command synopsis
// and may be empty.
func NewUsageError(msg, usage string) error {
	return &UsageError{
		Message: msg,
		Usage:   usage,
	}
}

// NewInputError creates an InputError for path.
func NewInputError(path, msg string, cause error) error {
	return &InputError{
		Path:    path,
		Message: msg,
		Cause:   cause,
	}
}

// NewRuntimeError creates a RuntimeError with the given message and cause.
func NewRuntimeError(msg string, cause error) error {
	return &RuntimeError{
		Message: msg,
		Cause:   cause,
	}
}

// IsUsage reports whether err is, or wraps, a UsageError.
func IsUsage(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}

// GetExitCode extracts the process exit code from an error.
// Returns 0 for nil and 1 for every other error, typed or not.
func GetExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitFailure
}
