package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taskboardhq/taskboard-api/internal/api/shared"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// MapErrorToStatusCode maps domain and store errors to HTTP status codes.
// This is the single translation point from the domain error taxonomy
// (validation, conflict, not found, internal) to transport responses.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case domain.IsValidationError(err),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. Unrecognized errors get a generic message so internal
// detail never leaks to the caller.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Validation errors
	case errors.Is(err, domain.ErrEmailRequired):
		return "Email is required"

	case errors.Is(err, domain.ErrNameRequired):
		return "Name is required"

	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"

	case errors.Is(err, domain.ErrTitleRequired):
		return "Task title is required"

	case errors.Is(err, domain.ErrUserIDRequired):
		return "User ID is required"

	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid task status. Must be one of: " + taskStatusList()

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Store constraint failures, e.g. a task referencing a missing user
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "Internal server error"
	}
}

// HandleServiceError maps err to a status code and writes the error envelope.
// When messageOverride is non-empty it replaces the mapped safe message,
// which lets handlers keep entity context ("User with ID 7 not found")
// without touching the mapping table.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error, messageOverride string) {
	status := MapErrorToStatusCode(err)

	message := messageOverride
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

func taskStatusList() string {
	values := domain.TaskStatusValues()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
