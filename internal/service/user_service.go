package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// UserService provides user-related operations.
type UserService interface {
	// GetAll returns every user, tasks included.
	GetAll(ctx context.Context) ([]domain.User, error)

	// GetByID returns a single user, propagating store.ErrUserNotFound.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Create validates and persists a new user.
	// Returns a domain validation error if email or name is missing or the
	// email is malformed, and store.ErrEmailExists if the email is taken.
	Create(ctx context.Context, email, name string) (*domain.User, error)

	// Update applies a partial update. A present email is re-validated for
	// format only; uniqueness is left to the store constraint.
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)

	// Delete removes a user; the store cascades the removal to owned tasks.
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if the store dependency is nil.
func NewUserService(users store.UserStore, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &userService{
		users:  users,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) Create(ctx context.Context, email, name string) (*domain.User, error) {
	user, err := domain.NewUser(email, name)
	if err != nil {
		return nil, err
	}

	// Fast-path uniqueness pre-check. Not authoritative: two concurrent
	// creates can both pass it, and the loser then hits the store's unique
	// constraint, which yields the same conflict error.
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user with email %s already exists",
			store.ErrEmailExists, email)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email))
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	// Format is re-validated when the patch carries an email; uniqueness is
	// deliberately not re-checked here (the store constraint still guards it).
	if patch.Email != nil && !domain.ValidEmail(*patch.Email) {
		return nil, domain.ErrInvalidEmail
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, domain.ErrNameRequired
	}

	return s.users.Update(ctx, id, patch)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.Int64("user_id", id))
	return nil
}
