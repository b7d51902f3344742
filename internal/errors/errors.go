// Package errors provides error types with actionable suggestions for devboot.
// Errors carry a kind, contextual details and a hint for resolving the issue.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrCatalog indicates the application or shell catalog could not be loaded.
	ErrCatalog = errors.New("catalog error")
	// ErrNetwork indicates a network-related error.
	ErrNetwork = errors.New("network error")
	// ErrInstall indicates a package manager or application install failure.
	ErrInstall = errors.New("install error")
	// ErrProfile indicates a shell profile could not be written.
	ErrProfile = errors.New("profile error")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
	// ErrCancelled indicates the user interrupted an operation.
	ErrCancelled = errors.New("cancelled")
)

// Error is the base error type for devboot errors.
// It wraps an underlying error and provides additional context.
type Error struct {
	// Kind is the category of error (e.g., ErrCatalog, ErrConfig).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path, URL).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error's kind matches the target.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with details and suggestions.
func (e *Error) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, e.Details[k]))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n💡 Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *Error) WithDetails(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// New creates a new Error with the given kind and message.
func New(kind error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// FormatAny renders err with Format when it is an *Error and with a plain
// "Error: " prefix otherwise.
func FormatAny(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Format()
	}
	return fmt.Sprintf("Error: %v\n", err)
}

// Is is a convenience re-export of the standard errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience re-export of the standard errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
