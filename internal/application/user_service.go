package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendloop/service-lending/internal/domain/shared"
	userDomain "github.com/lendloop/service-lending/internal/domain/user"
)

// CreateUserRequest holds the data needed to register a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UpdateUserRequest holds partial updates to a user profile.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserService manages user accounts.
type UserService struct {
	userRepo userDomain.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo userDomain.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// CreateUser registers a new user. Email addresses are unique.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, u.Email())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewConflictError("email is already in use: " + u.Email())
	}

	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	result := toUserDTO(u)
	return &result, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// UpdateUser applies partial updates to a user profile.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != u.Email() {
		taken, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewConflictError("email is already in use: " + *req.Email)
		}
	}

	if err := u.Update(req.Name, req.Email); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	result := toUserDTO(u)
	return &result, nil
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt(),
	}
}
