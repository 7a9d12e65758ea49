package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
)

// ProfileService handles the shop profile printed on receipts
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

// GetProfile retrieves the user's profile, creating an empty one if none exists
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		profile = &entity.UserProfile{UserID: userID}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
	}

	return profile, nil
}

// UpdateProfileInput represents the input for updating the profile
type UpdateProfileInput struct {
	UserID   uuid.UUID
	Username *string
	ShopName *string
	ShopLogo *string
}

// UpdateProfile updates the user's profile. An empty shop logo clears it.
func (s *ProfileService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.UserProfile, error) {
	profile, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		profile.Username = strings.TrimSpace(*input.Username)
	}
	if input.ShopName != nil {
		profile.ShopName = strings.TrimSpace(*input.ShopName)
	}
	if input.ShopLogo != nil {
		profile.ShopLogo = trimmed(input.ShopLogo)
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
