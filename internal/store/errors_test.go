package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

func TestEntitySpecificErrorsWrapGenericOnes(t *testing.T) {
	assert.ErrorIs(t, store.ErrUserNotFound, store.ErrNotFound)
	assert.ErrorIs(t, store.ErrTaskNotFound, store.ErrNotFound)
	assert.ErrorIs(t, store.ErrEmailExists, store.ErrDuplicate)
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "generic not found", err: store.ErrNotFound, want: true},
		{name: "user not found", err: store.ErrUserNotFound, want: true},
		{name: "task not found", err: store.ErrTaskNotFound, want: true},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", store.ErrTaskNotFound), want: true},
		{name: "duplicate", err: store.ErrDuplicate, want: false},
		{name: "unrelated", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, store.IsDuplicateError(store.ErrDuplicate))
	assert.True(t, store.IsDuplicateError(store.ErrEmailExists))
	assert.True(t, store.IsDuplicateError(fmt.Errorf("create: %w", store.ErrEmailExists)))
	assert.False(t, store.IsDuplicateError(store.ErrNotFound))
	assert.False(t, store.IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	inner := errors.New("connection reset")
	err := store.NewStoreError("user", "create", "insert failed", inner)

	assert.Contains(t, err.Error(), "create operation on user failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, inner)

	noWrap := store.NewStoreError("task", "delete", "gone", nil)
	assert.Equal(t, "delete operation on task failed: gone", noWrap.Error())
}
