package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"listinghub-go/internal/db"
	"listinghub-go/internal/models"
)

// listingService implements ListingService on top of the listing repository.
type listingService struct {
	repo   db.ListingRepository
	logger *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(repo db.ListingRepository, logger *zap.Logger) ListingService {
	return &listingService{repo: repo, logger: logger}
}

// Create stores a new listing for ownerID. Status is forced to pending and
// the soft-delete flag to false regardless of what the request carried.
func (s *listingService) Create(ctx context.Context, ownerID string, req models.CreateListingRequest) (*models.Listing, error) {
	listing := &models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Keywords:    req.Keywords,
		ImageURL:    req.ImageURL,
		UserID:      ownerID,
		Status:      models.StatusPending,
		IsDeleted:   false,
	}

	id, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	listing.ID = id
	s.logger.Info("listing created",
		zap.String("listing_id", id),
		zap.String("owner_id", ownerID),
	)
	return listing, nil
}

// GetMine returns the caller's non-deleted listings.
func (s *listingService) GetMine(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	return s.repo.GetByOwnerID(ctx, ownerID)
}

// Get returns a single listing, visible to its owner and to admins only.
func (s *listingService) Get(ctx context.Context, requesterID string, requesterIsAdmin bool, listingID string) (*models.Listing, error) {
	listing, err := s.getExisting(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != requesterID && !requesterIsAdmin {
		return nil, ErrAccessDenied
	}
	return listing, nil
}

// Update applies a partial update to a listing the requester owns.
func (s *listingService) Update(ctx context.Context, requesterID string, listingID string, req models.UpdateListingRequest) error {
	if req.IsEmpty() {
		return ErrNoUpdateData
	}
	listing, err := s.getExisting(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.UserID != requesterID {
		return ErrAccessDenied
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Keywords != nil {
		fields["keywords"] = *req.Keywords
	}
	return s.repo.Update(ctx, listingID, fields)
}

// Delete soft-deletes a listing the requester owns. There is no undelete.
func (s *listingService) Delete(ctx context.Context, requesterID string, listingID string) error {
	listing, err := s.getExisting(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.UserID != requesterID {
		return ErrAccessDenied
	}
	if err := s.repo.SoftDelete(ctx, listingID); err != nil {
		return fmt.Errorf("failed to delete listing '%s': %w", listingID, err)
	}
	s.logger.Info("listing soft-deleted",
		zap.String("listing_id", listingID),
		zap.String("owner_id", requesterID),
	)
	return nil
}

// AdminList returns all non-deleted listings, optionally filtered by status.
// The admin check happens in the middleware, not here.
func (s *listingService) AdminList(ctx context.Context, status models.Status) ([]*models.Listing, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.GetAll(ctx, status)
}

// AdminSetStatus transitions a listing to approved or rejected.
func (s *listingService) AdminSetStatus(ctx context.Context, listingID string, status models.Status) error {
	if status != models.StatusApproved && status != models.StatusRejected {
		return ErrInvalidStatus
	}
	if _, err := s.getExisting(ctx, listingID); err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, listingID, status); err != nil {
		return fmt.Errorf("failed to update status of listing '%s': %w", listingID, err)
	}
	s.logger.Info("listing status updated",
		zap.String("listing_id", listingID),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *listingService) getExisting(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// Soft-deleted records behave as if they no longer exist.
	if listing.IsDeleted {
		return nil, ErrNotFound
	}
	return listing, nil
}
