/*
errors.go - Error types for the debt repository

ERROR CATEGORIES:
  1. Lookup errors - unknown debt IDs
  2. Validation errors - malformed debt fields
  3. Conflict errors - duplicate IDs

USAGE:
  Callers classify with the helpers instead of comparing strings:

    if debts.IsNotFound(err) {
        // 404
    }
*/
package debts

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDebtNotFound is returned when an ID does not match any stored debt.
	ErrDebtNotFound = errors.New("debt not found")

	// ErrDuplicateDebt is returned when adding a debt whose ID already exists.
	ErrDuplicateDebt = errors.New("duplicate debt id")

	// ErrInvalidDebt is returned when a debt fails field validation.
	ErrInvalidDebt = errors.New("invalid debt")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid debt: %s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDebt
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing debt.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDebtNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDebt) || errors.Is(err, ErrDuplicateDebt)
}
