package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lendloop/service-lending/internal/domain/shared"
)

// User is a registered account. The booking engine only needs existence
// checks; profile management lives here for completeness.
type User struct {
	id        uuid.UUID
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new user with validated fields.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, shared.NewValidationError("user name is required")
	}
	if !isValidEmail(email) {
		return nil, shared.NewValidationError("invalid email: " + email)
	}

	now := time.Now().UTC()
	return &User{
		id:        uuid.New(),
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Update applies partial updates; nil fields are left unchanged.
func (u *User) Update(name, email *string) error {
	if name != nil {
		u.name = *name
	}
	if email != nil {
		if !isValidEmail(*email) {
			return shared.NewValidationError("invalid email: " + *email)
		}
		u.email = *email
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.Contains(email, " ")
}
