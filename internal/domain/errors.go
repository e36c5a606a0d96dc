package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is the root of all validation errors. Every field-level
	// sentinel below wraps it, so callers can classify any validation failure
	// with a single errors.Is check.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)

	// ErrEmailRequired is returned when a user is created without an email.
	ErrEmailRequired = fmt.Errorf("%w: email is required", ErrValidation)

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrValidation)

	// ErrNameRequired is returned when a user is created without a name.
	ErrNameRequired = fmt.Errorf("%w: name is required", ErrValidation)

	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = fmt.Errorf("%w: task title is required", ErrValidation)

	// ErrUserIDRequired is returned when a task is created without an owner.
	ErrUserIDRequired = fmt.Errorf("%w: user ID is required", ErrValidation)

	// ErrInvalidTaskStatus is returned when a task status is not one of the
	// known literals.
	ErrInvalidTaskStatus = fmt.Errorf("%w: invalid task status", ErrValidation)
)

// IsValidationError reports whether err is any kind of validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
