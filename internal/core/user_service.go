package core

import (
	"context"

	"listinghub-go/internal/db"
	"listinghub-go/internal/models"
)

// userService implements UserService on top of the user repository.
type userService struct {
	repo db.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo db.UserRepository) UserService {
	return &userService{repo: repo}
}

// GetOrCreate ensures a profile document exists for the authenticated user.
// Called after every sign-in; an existing profile (and its admin flag) is
// returned untouched.
func (s *userService) GetOrCreate(ctx context.Context, uid, email, displayName string) (*models.User, bool, error) {
	return s.repo.GetOrCreate(ctx, &models.User{
		ID:          uid,
		Email:       email,
		DisplayName: displayName,
	})
}

// GetByID returns the profile for the given Firebase UID.
func (s *userService) GetByID(ctx context.Context, uid string) (*models.User, error) {
	return s.repo.GetByID(ctx, uid)
}
