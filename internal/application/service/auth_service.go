package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	tx          repository.Transactor
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtManager  *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		tx:          tx,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtManager:  jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	ShopName string
}

// Register creates a cashier account and its shop profile
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var errs []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, apperror.FieldError{Field: "email", Message: "Email is not valid"})
	}
	if len(input.Password) < utils.MinPasswordLength {
		errs = append(errs, apperror.FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password", err)
	}

	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     enum.RoleCashier,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		user.Profile = &entity.UserProfile{
			UserID:   user.ID,
			Username: user.Name,
			ShopName: strings.TrimSpace(input.ShopName),
		}
		return s.profileRepo.Create(ctx, user.Profile)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Roles())
	if err != nil {
		return nil, apperror.Internal("Failed to sign access token", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperror.Internal("Failed to sign refresh token", err)
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewFieldError("current_password", "Current password is incorrect")
	}
	if len(input.NewPassword) < utils.MinPasswordLength {
		return apperror.NewFieldError("new_password", "Password must be at least 8 characters")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return apperror.Internal("Failed to hash password", err)
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}
