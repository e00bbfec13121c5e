/*
errors.go - Centralized error types for the salary engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The computation itself never fails; these errors come from the
  boundaries around it (request parsing, persistence, provisioning).

ERROR CATEGORIES:
  1. Period errors - Malformed month keys or ranges
  2. Validation errors - Rejected input (mapping, advance, provisioning)
  3. Store errors - Missing rows

SEE ALSO:
  - factory/validate.go: Builds ValidationError from validator output
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a range ends before it starts or is incomplete.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidMonthKey is returned when a month key is not YYYY-MM.
	ErrInvalidMonthKey = errors.New("invalid month key")

	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAdvanceNotFound is returned when deleting an unknown advance entry.
	ErrAdvanceNotFound = errors.New("advance entry not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError lists the offending fields of a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidMonthKey) ||
		errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrAdvanceNotFound)
}
