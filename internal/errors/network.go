// Package errors provides error types for devboot.
// This file contains network and install errors.
package errors

import (
	"fmt"
)

// NetworkUnavailable creates an error for network connectivity issues.
func NetworkUnavailable(host string, cause error) *Error {
	err := &Error{
		Kind:    ErrNetwork,
		Message: "network unavailable",
		Cause:   cause,
		Suggestion: `Check your network connection or run without --online to use the local catalog.

If you're behind a proxy:
  export HTTP_PROXY=http://proxy:port
  export HTTPS_PROXY=http://proxy:port`,
	}
	if host != "" {
		err.Details = map[string]string{"host": host}
	}
	return err
}

// FetchFailed creates an error for a remote document that could not be retrieved.
func FetchFailed(url string, status int) *Error {
	return &Error{
		Kind:    ErrNetwork,
		Message: fmt.Sprintf("fetch failed with status %d", status),
		Details: map[string]string{
			"url":    url,
			"status": fmt.Sprintf("%d", status),
		},
	}
}

// PackageManagerMissing creates an error for a package manager that must be
// installed manually.
func PackageManagerMissing(command, installerURL string) *Error {
	return &Error{
		Kind:    ErrInstall,
		Message: fmt.Sprintf("%s is not installed", command),
		Details: map[string]string{
			"command":   command,
			"installer": installerURL,
		},
		Suggestion: fmt.Sprintf("Please download and install manually: %s", installerURL),
	}
}

// InstallFailed creates an error for a package that failed to install.
func InstallFailed(id string, exitCode int, stderr string) *Error {
	err := &Error{
		Kind:    ErrInstall,
		Message: fmt.Sprintf("%s installation failed (exit code: %d)", id, exitCode),
		Details: map[string]string{
			"id":        id,
			"exit_code": fmt.Sprintf("%d", exitCode),
		},
	}
	if stderr != "" {
		err.Details["stderr"] = stderr
	}
	return err
}

// OperationCancelled creates an error for operations interrupted by the user.
func OperationCancelled(operation string) *Error {
	return &Error{
		Kind:    ErrCancelled,
		Message: fmt.Sprintf("%s was cancelled", operation),
		Details: map[string]string{
			"operation": operation,
		},
	}
}

// IsUserError returns true if the error is due to user misconfiguration.
func IsUserError(err error) bool {
	var e *Error
	if As(err, &e) {
		switch e.Kind {
		case ErrConfig, ErrCatalog:
			return true
		}
	}
	return false
}

// IsCancelled reports whether err stems from a user interrupt.
func IsCancelled(err error) bool {
	return Is(err, ErrCancelled)
}
