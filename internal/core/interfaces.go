package core

import (
	"context"
	"errors"

	"listinghub-go/internal/models"
)

// Service-level errors mapped to HTTP statuses by the API layer.
var (
	ErrNotFound      = errors.New("listing not found")
	ErrAccessDenied  = errors.New("access denied")
	ErrNoUpdateData  = errors.New("no update data provided")
	ErrInvalidStatus = errors.New("status must be 'approved' or 'rejected'")
)

// ListingService defines the listing operations exposed to the API layer.
// Ownership and admin checks are enforced here; handlers only translate
// errors to HTTP statuses.
type ListingService interface {
	Create(ctx context.Context, ownerID string, req models.CreateListingRequest) (*models.Listing, error)
	GetMine(ctx context.Context, ownerID string) ([]*models.Listing, error)
	Get(ctx context.Context, requesterID string, requesterIsAdmin bool, listingID string) (*models.Listing, error)
	Update(ctx context.Context, requesterID string, listingID string, req models.UpdateListingRequest) error
	Delete(ctx context.Context, requesterID string, listingID string) error
	AdminList(ctx context.Context, status models.Status) ([]*models.Listing, error)
	AdminSetStatus(ctx context.Context, listingID string, status models.Status) error
}

// UserService defines user profile operations.
type UserService interface {
	GetOrCreate(ctx context.Context, uid, email, displayName string) (*models.User, bool, error)
	GetByID(ctx context.Context, uid string) (*models.User, error)
}

// AIService generates a listing draft from a product image.
type AIService interface {
	GenerateDescription(ctx context.Context, imageData string) (*models.AIGenerationResult, error)
}
