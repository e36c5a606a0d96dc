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

// UserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type UserStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. It accepts a database connection that should be initialized and
// managed by the caller. If logger is nil, a default logger will be used.
func NewUserStore(db *sql.DB, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// List implements store.UserStore.List
func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, name, created_at, updated_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]domain.User, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, store.NewStoreError("user", "list", "failed to scan row", err)
		}
		u.Tasks = make([]domain.Task, 0)
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	// Attach each user's tasks in creation order with a single second query.
	taskRows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, status, user_id, created_at, updated_at
		FROM tasks
		ORDER BY created_at, id
	`)
	if err != nil {
		log.Error("failed to list tasks for users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = taskRows.Close() }()

	for taskRows.Next() {
		t, err := scanTask(taskRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[t.UserID]; ok {
			users[i].Tasks = append(users[i].Tasks, *t)
		}
	}
	if err := taskRows.Err(); err != nil {
		return nil, MapError(err)
	}

	return users, nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getByID(ctx, s.db, id)
}

// getByID resolves a user and its tasks against the given DBTX, so the same
// lookup can run inside or outside a transaction.
func (s *UserStore) getByID(ctx context.Context, q store.DBTX, id int64) (*domain.User, error) {
	var u domain.User
	err := q.QueryRowContext(ctx, `
		SELECT id, email, name, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}

	u.Tasks = make([]domain.Task, 0)
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, description, status, user_id, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at, id
	`, id)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		u.Tasks = append(u.Tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return &u, nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absence is an answer here, not a failure.
			return nil, nil
		}
		return nil, MapError(err)
	}
	return &u, nil
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Email, user.Name, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("email", user.Email))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return MapError(err)
	}

	if user.Tasks == nil {
		user.Tasks = make([]domain.Task, 0)
	}
	return nil
}

// Update implements store.UserStore.Update
// The merge is read-modify-write inside a transaction, so concurrent patches
// to the same user serialize on the row lock.
func (s *UserStore) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var email, name string
		err := tx.QueryRowContext(ctx, `
			SELECT email, name
			FROM users
			WHERE id = $1
			FOR UPDATE
		`, id).Scan(&email, &name)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrUserNotFound
			}
			return MapError(err)
		}

		if patch.Email != nil {
			email = *patch.Email
		}
		if patch.Name != nil {
			name = *patch.Name
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET email = $1, name = $2, updated_at = $3
			WHERE id = $4
		`, email, name, time.Now().UTC(), id)
		if err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
			}
			return MapError(err)
		}
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !store.IsDuplicateError(err) {
			log.Error("failed to update user",
				slog.Int64("user_id", id),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete implements store.UserStore.Delete
// Owned tasks are removed by the tasks.user_id foreign key's ON DELETE
// CASCADE, so the whole removal is a single atomic statement.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}
