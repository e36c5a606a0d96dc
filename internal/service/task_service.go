package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// CreateTaskInput carries the fields accepted when creating a task.
// An empty Status defaults to pending.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	UserID      int64
}

// TaskService provides task-related operations.
type TaskService interface {
	// GetAll returns tasks newest-first, optionally filtered by owner.
	GetAll(ctx context.Context, userID *int64) ([]domain.Task, error)

	// GetByID returns a single task, propagating store.ErrTaskNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Create validates and persists a new task. The owning user's existence
	// is not checked here; a bad UserID surfaces as store.ErrInvalidEntity
	// from the store's foreign key.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// Update applies a partial update. A present status is validated against
	// the enum before delegating to the store.
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// UpdateStatus changes only the task's status. Implemented as a special
	// case of Update, so it shares the same merge semantics.
	UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)

	// Delete removes a task.
	Delete(ctx context.Context, id int64) error
}

type taskService struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if the store dependency is nil.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskService{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

func (s *taskService) GetAll(ctx context.Context, userID *int64) ([]domain.Task, error) {
	return s.tasks.List(ctx, store.TaskFilter{UserID: userID})
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input.Title, input.Description, input.Status, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.UserID),
		slog.String("status", string(task.Status)))
	return task, nil
}

func (s *taskService) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, domain.ErrInvalidTaskStatus
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	return s.tasks.Update(ctx, id, patch)
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidTaskStatus
	}

	return s.Update(ctx, id, domain.TaskPatch{Status: &status})
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("task deleted", slog.Int64("task_id", id))
	return nil
}
