package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"

	"github.com/google/uuid"
)

// ProfileServiceImpl implements ports.ProfileService.
type ProfileServiceImpl struct {
	userRepo ports.UserRepository
}

// NewProfileService creates a new ProfileServiceImpl.
func NewProfileService(userRepo ports.UserRepository) *ProfileServiceImpl {
	return &ProfileServiceImpl{userRepo: userRepo}
}

// GetProfile returns the user's profile.
func (s *ProfileServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}
	return user, nil
}

// UpdateProfile changes the display name and, optionally, the email.
func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, name string, email *string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}

	if email != nil {
		existing, err := s.userRepo.GetByEmail(ctx, *email)
		if err != nil {
			return nil, apperror.ErrPersistence(fmt.Errorf("check email: %w", err))
		}
		if existing != nil && existing.ID != userID {
			return nil, apperror.Validation("email already registered")
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("update user: %w", err))
	}
	return user, nil
}
