package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskboardhq/taskboard-api/internal/api"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"bare not found", store.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get user: %w", store.ErrUserNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"bare duplicate", store.ErrDuplicate, http.StatusConflict},
		{"validation root", domain.ErrValidation, http.StatusBadRequest},
		{"email required", domain.ErrEmailRequired, http.StatusBadRequest},
		{"invalid status", domain.ErrInvalidTaskStatus, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"transaction failed", store.ErrTransactionFailed, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"email required", domain.ErrEmailRequired, "Email is required"},
		{"name required", domain.ErrNameRequired, "Name is required"},
		{"invalid email", domain.ErrInvalidEmail, "Invalid email format"},
		{"title required", domain.ErrTitleRequired, "Task title is required"},
		{"user id required", domain.ErrUserIDRequired, "User ID is required"},
		{
			"invalid status",
			domain.ErrInvalidTaskStatus,
			"Invalid task status. Must be one of: pending, in_progress, completed",
		},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"task not found", store.ErrTaskNotFound, "Task not found"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"invalid entity", store.ErrInvalidEntity, "Invalid entity data"},
		{"unknown", errors.New("pq: connection reset"), "Internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, api.GetSafeErrorMessage(tc.err))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksDetail(t *testing.T) {
	err := fmt.Errorf("insert user: %w", errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))
	assert.Equal(t, "Internal server error", api.GetSafeErrorMessage(err))
}
