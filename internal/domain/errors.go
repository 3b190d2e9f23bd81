package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common domain errors that can occur during tip comparison.
var (
	// ErrMissingColumn indicates that a table lacks a required column entirely.
	ErrMissingColumn = errors.New("missing required column")

	// ErrNilDataset indicates that Compare was called without any input.
	ErrNilDataset = errors.New("dataset is nil")

	// ErrStatsUnavailable indicates that a significance test could not be
	// computed. Callers recover from it by reporting an unknown p-value.
	ErrStatsUnavailable = errors.New("significance test unavailable")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// SchemaError reports that a table is structurally unusable because one or
// more required columns are absent. It is the only per-call error surfaced
// for malformed input; individual bad rows are skipped instead.
type SchemaError struct {
	// Missing lists the canonical field names with no matching column.
	Missing []string

	// Available is the header of the offending table.
	Available []string

	// Suggestions maps a missing field to the closest available column,
	// when one is close enough to be a likely typo.
	Suggestions map[string]string
}

// Error implements the error interface for SchemaError.
func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("schema error: %v: %s", ErrMissingColumn, strings.Join(e.Missing, ", "))
	if len(e.Suggestions) == 0 {
		return msg
	}

	fields := make([]string, 0, len(e.Suggestions))
	for f := range e.Suggestions {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	hints := make([]string, 0, len(fields))
	for _, f := range fields {
		hints = append(hints, fmt.Sprintf("%q for %s", e.Suggestions[f], f))
	}
	return fmt.Sprintf("%s (did you mean %s?)", msg, strings.Join(hints, ", "))
}

// Unwrap returns ErrMissingColumn so callers can match with errors.Is.
func (e *SchemaError) Unwrap() error { return ErrMissingColumn }

// NewSchemaError creates a new SchemaError for the given missing fields.
func NewSchemaError(missing, available []string) *SchemaError {
	return &SchemaError{
		Missing:   missing,
		Available: available,
	}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Unwrap lets validation failures match ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
