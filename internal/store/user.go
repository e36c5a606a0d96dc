package store

import (
	"context"

	"github.com/taskboardhq/taskboard-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// List returns all users. Each user's Tasks field is populated in
	// creation order. No ordering is guaranteed for the users themselves.
	List(ctx context.Context) ([]domain.User, error)

	// GetByID retrieves a user by their unique ID, with the Tasks field
	// populated in creation order.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address. Unlike GetByID it
	// returns (nil, nil) when no user has the given email; it exists for
	// uniqueness pre-checks, where absence is not a failure.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create persists a new user, assigning its ID and refreshing the
	// timestamps on the given entity.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// Update merges the non-nil fields of patch onto the stored user and
	// persists the result. Fields absent from the patch are left untouched.
	// Returns the updated user with relations populated.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if the patch email collides with another user.
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)

	// Delete removes a user by their ID. All tasks owned by the user are
	// removed with it in a single atomic operation.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error
}
