package store

import (
	"context"

	"github.com/taskboardhq/taskboard-api/internal/domain"
)

// TaskFilter narrows the tasks returned by TaskStore.List.
type TaskFilter struct {
	// UserID, when non-nil, restricts the listing to tasks owned by that user.
	UserID *int64
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// List returns tasks matching the filter, newest first by creation time.
	// Each task's User field is populated.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)

	// GetByID retrieves a task by its unique ID, with the User field populated.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Create persists a new task, assigning its ID and refreshing the
	// timestamps on the given entity.
	// Returns ErrInvalidEntity if the task references a user that does not
	// exist; referential integrity is enforced by the store, not the caller.
	Create(ctx context.Context, task *domain.Task) error

	// Update merges the non-nil fields of patch onto the stored task and
	// persists the result. Fields absent from the patch are left untouched.
	// Returns the updated task with its User populated.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error
}
