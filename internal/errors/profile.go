// Package errors provides error types for devboot.
// This file contains shell profile errors.
package errors

import (
	"fmt"
)

// UnknownShell creates an error for a shell id with no configuration routine.
func UnknownShell(id string, known []string) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("no configuration available for shell: %s", id),
		Details: map[string]string{
			"shell": id,
			"known": fmt.Sprintf("%v", known),
		},
	}
}

// ProfileWriteFailed creates an error for a profile file that could not be written.
func ProfileWriteFailed(path string, cause error) *Error {
	return &Error{
		Kind:    ErrProfile,
		Message: fmt.Sprintf("failed to write profile %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: "Check that the directory is writable and the file is not locked by a running shell.",
	}
}

// HomeDirUnavailable creates an error for a user home directory that cannot
// be determined, so profile locations cannot be resolved.
func HomeDirUnavailable(cause error) *Error {
	return &Error{
		Kind:       ErrProfile,
		Message:    "cannot determine the user home directory",
		Cause:      cause,
		Suggestion: "Set HOME (or USERPROFILE on Windows) and try again.",
	}
}
