package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrDuplicate indicates the record already exists. The repository maps
	// Postgres unique violations (23505) to this, so a lost duplicate-check
	// race surfaces as the same conflict outcome as the fast-path check.
	ErrDuplicate = errors.New("duplicate")
)

// DuplicateError creates a duplicate error with context
func DuplicateError(resource string) error {
	return fmt.Errorf("%s already exists: %w", resource, ErrDuplicate)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
