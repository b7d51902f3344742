// Package errors provides error types for devboot.
// This file contains configuration and catalog errors.
package errors

import (
	"fmt"
	"strings"
)

// ConfigParseError creates an error for config file parsing failures.
func ConfigParseError(configPath string, parseErr error) *Error {
	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check your config.yaml for syntax errors:
  1. Ensure proper YAML indentation (use spaces, not tabs)
  2. Check for missing colons or quotes

Regenerate a default file with:
  devboot config init --force`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *Error {
	suggestion := fmt.Sprintf("Fix the %q field in your devboot config.yaml", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}

// CatalogNotFound creates an error for a missing local catalog file.
func CatalogNotFound(path string) *Error {
	return &Error{
		Kind:    ErrCatalog,
		Message: fmt.Sprintf("local catalog file not found: %s", path),
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `Provide the catalog locally or fetch it remotely:

  Option 1: Run from the repository root so json/apps.json and json/shells.json resolve
  Option 2: Point catalog.apps_file / catalog.shells_file at your files in config.yaml
  Option 3: Use the remote catalog
    devboot --online`,
	}
}

// CatalogParseError creates an error for a catalog document that does not
// match the expected schema.
func CatalogParseError(source string, parseErr error) *Error {
	return &Error{
		Kind:    ErrCatalog,
		Message: fmt.Sprintf("invalid catalog document: %s", source),
		Cause:   parseErr,
		Details: map[string]string{
			"source": source,
		},
		Suggestion: `Catalogs are JSON (or YAML) documents:
  apps:   [{"section": "Dev", "apps": [{"id": "Git.Git", "name": "Git"}]}]
  shells: {"version": "1", "shells": [{"id": "bash", "name": "Bash", "function": "configure_bash"}]}`,
	}
}
