package db

import (
	"context"

	"listinghub-go/internal/models"
)

// ListingRepository defines the interface for listing storage operations.
// Soft-deleted records are excluded from every query; Delete only ever sets
// the flag, it never removes the document.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) (string, error) // Returns new listing ID
	GetByID(ctx context.Context, listingID string) (*models.Listing, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Listing, error)
	GetAll(ctx context.Context, status models.Status) ([]*models.Listing, error) // status "" means all
	Update(ctx context.Context, listingID string, fields map[string]interface{}) error
	SetStatus(ctx context.Context, listingID string, status models.Status) error
	SoftDelete(ctx context.Context, listingID string) error
}

// UserRepository defines the interface for user profile storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error)
}
