package domain

import (
	"regexp"
	"time"
)

// emailRegexp matches a simple local@domain.tld shape. Deliberately loose;
// the store's unique constraint is what actually guards correctness.
var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents a registered user that owns tasks.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Tasks holds the user's tasks in creation order. Populated on read
	// paths by the store; never written through this field.
	Tasks []Task `json:"tasks"`
}

// UserPatch describes a partial update to a user. Nil fields are left
// untouched by the store.
type UserPatch struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

// NewUser creates a User with the given email and name and sets the
// timestamps. The ID is assigned by the store on create.
// Returns an error if validation fails.
func NewUser(email, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmailRequired
	}

	if !ValidEmail(u.Email) {
		return ErrInvalidEmail
	}

	if u.Name == "" {
		return ErrNameRequired
	}

	return nil
}

// ValidEmail reports whether email has a plausible address shape.
func ValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}
