package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"credpal/internal/app/policy"
	"credpal/internal/common"
	"credpal/internal/common/security"
	"credpal/internal/domain/model"
	"credpal/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]model.User, int, error) {
	offset := (page - 1) * limit
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Update applies a profile change. Only the account owner or an admin
// may update a user; password changes are re-hashed, email changes are
// re-normalized and subject to the store's uniqueness constraint.
func (s *UserService) Update(ctx context.Context, principal *model.Principal, id string, req UpdateUserRequest) (*model.User, error) {
	if err := policy.Authorize(principal, policy.OwnerOrAdmin, id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", common.ErrValidation)
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("invalid email address: %w", common.ErrValidation)
		}
		user.Email = email
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, fmt.Errorf("password must be at least 6 characters: %w", common.ErrValidation)
		}
		hashedPassword, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// Delete removes a user account. The admin-only guard is enforced at the
// route level; the service only talks to the store.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}
