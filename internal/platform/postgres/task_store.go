package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/platform/logger"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// TaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type TaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection that should be initialized and
// managed by the caller. If logger is nil, a default logger will be used.
func NewTaskStore(db *sql.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads the bare task columns (no joined user).
func scanTask(r rowScanner) (*domain.Task, error) {
	var t domain.Task
	var description sql.NullString
	err := r.Scan(&t.ID, &t.Title, &description, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan task row: %w", err)
	}
	t.Description = description.String
	return &t, nil
}

// scanTaskWithUser reads task columns followed by the joined owner columns.
func scanTaskWithUser(r rowScanner) (*domain.Task, error) {
	var t domain.Task
	var u domain.User
	var description sql.NullString
	err := r.Scan(
		&t.ID, &t.Title, &description, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
		&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	t.User = &u
	return &t, nil
}

const taskWithUserColumns = `
	t.id, t.title, t.description, t.status, t.user_id, t.created_at, t.updated_at,
	u.id, u.email, u.name, u.created_at, u.updated_at
`

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, filter store.TaskFilter) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskWithUserColumns + `
		FROM tasks t
		JOIN users u ON u.id = t.user_id
	`
	args := []any{}
	if filter.UserID != nil {
		query += ` WHERE t.user_id = $1`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTaskWithUser(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan row", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskWithUserColumns+`
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`, id)

	t, err := scanTaskWithUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return t, nil
}

// Create implements store.TaskStore.Create
// A task referencing a missing user fails on the foreign key and surfaces as
// store.ErrInvalidEntity; the service layer deliberately does not pre-check.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		task.Title,
		nullableString(task.Description),
		task.Status,
		task.UserID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.Int64("user_id", task.UserID))
			return fmt.Errorf("%w: user with ID %d not found",
				store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task", slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// Update implements store.TaskStore.Update
// The merge is read-modify-write inside a transaction, so concurrent patches
// to the same task serialize on the row lock.
func (s *TaskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var title string
		var description sql.NullString
		var status domain.TaskStatus
		var userID int64
		err := tx.QueryRowContext(ctx, `
			SELECT title, description, status, user_id
			FROM tasks
			WHERE id = $1
			FOR UPDATE
		`, id).Scan(&title, &description, &status, &userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrTaskNotFound
			}
			return MapError(err)
		}

		if patch.Title != nil {
			title = *patch.Title
		}
		if patch.Description != nil {
			description = nullableString(*patch.Description)
		}
		if patch.Status != nil {
			status = *patch.Status
		}
		if patch.UserID != nil {
			userID = *patch.UserID
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks
			SET title = $1, description = $2, status = $3, user_id = $4, updated_at = $5
			WHERE id = $6
		`, title, description, status, userID, time.Now().UTC(), id)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: user with ID %d not found",
					store.ErrInvalidEntity, userID)
			}
			return MapError(err)
		}
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !errors.Is(err, store.ErrInvalidEntity) {
			log.Error("failed to update task",
				slog.Int64("task_id", id),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// nullableString stores empty strings as NULL, matching the schema where
// description is an optional column.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
