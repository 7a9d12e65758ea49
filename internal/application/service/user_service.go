package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
)

// UserService handles shop account management
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns a page of accounts matching search
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(users, params, total), nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserRoleInput represents the input for changing a user's role
type UpdateUserRoleInput struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Role    string
}

// UpdateUserRole switches a user between admin and cashier. Admins cannot
// demote themselves.
func (s *UserService) UpdateUserRole(ctx context.Context, input *UpdateUserRoleInput) (*entity.User, error) {
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role != enum.RoleAdmin && role != enum.RoleCashier {
		return nil, apperror.NewFieldError("role", "Role must be admin or cashier")
	}
	if input.ActorID == input.UserID && role != enum.RoleAdmin {
		return nil, apperror.NewBadRequestError("You cannot remove your own admin role")
	}

	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. Sales rung up by it are kept.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
