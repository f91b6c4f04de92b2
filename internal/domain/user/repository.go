package user

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
