package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"listinghub-go/internal/models"
)

// ListingsCollection is the Firestore collection holding listing documents.
// The client's live queries subscribe to the same collection.
const ListingsCollection = "products"

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// firestoreListingRepository implements ListingRepository using Firestore.
type firestoreListingRepository struct {
	client *firestore.Client
}

// NewFirestoreListingRepository creates a new Firestore-backed ListingRepository.
func NewFirestoreListingRepository(client *firestore.Client) ListingRepository {
	if client == nil {
		panic("Firestore client is not initialized for ListingRepository")
	}
	return &firestoreListingRepository{client: client}
}

// Create adds a new listing document with an auto-generated ID.
// CreatedAt/UpdatedAt are populated server-side via the serverTimestamp tags.
func (r *firestoreListingRepository) Create(ctx context.Context, listing *models.Listing) (string, error) {
	docRef := r.client.Collection(ListingsCollection).NewDoc()
	listing.ID = docRef.ID
	if _, err := docRef.Create(ctx, listing); err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a listing document by its ID.
func (r *firestoreListingRepository) GetByID(ctx context.Context, listingID string) (*models.Listing, error) {
	if listingID == "" {
		return nil, errors.New("listingID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(ListingsCollection).Doc(listingID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("listing with ID '%s' not found: %w", listingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing with ID '%s': %w", listingID, err)
	}

	var listing models.Listing
	if err := docSnap.DataTo(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing data for ID '%s': %w", listingID, err)
	}
	listing.ID = docSnap.Ref.ID
	return &listing, nil
}

// GetByOwnerID retrieves all non-deleted listings owned by a user.
func (r *firestoreListingRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for GetByOwnerID operation")
	}
	query := r.client.Collection(ListingsCollection).
		Where("user_id", "==", ownerID).
		Where("is_deleted", "==", false)
	return r.collect(ctx, query)
}

// GetAll retrieves all non-deleted listings, optionally filtered by status.
func (r *firestoreListingRepository) GetAll(ctx context.Context, st models.Status) ([]*models.Listing, error) {
	query := r.client.Collection(ListingsCollection).Where("is_deleted", "==", false)
	if st != "" {
		query = query.Where("status", "==", string(st))
	}
	return r.collect(ctx, query)
}

func (r *firestoreListingRepository) collect(ctx context.Context, query firestore.Query) ([]*models.Listing, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var listings []*models.Listing
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate listings: %w", err)
		}
		var listing models.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, fmt.Errorf("failed to decode listing data (ID: %s): %w", doc.Ref.ID, err)
		}
		listing.ID = doc.Ref.ID
		listings = append(listings, &listing)
	}
	return listings, nil
}

// Update applies a partial field update to a listing document.
// UpdatedAt is refreshed server-side on every write.
func (r *firestoreListingRepository) Update(ctx context.Context, listingID string, fields map[string]interface{}) error {
	if listingID == "" {
		return errors.New("listingID cannot be empty for Update operation")
	}
	if len(fields) == 0 {
		return errors.New("no fields to update")
	}

	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updated_at", Value: firestore.ServerTimestamp})

	if _, err := r.client.Collection(ListingsCollection).Doc(listingID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("listing with ID '%s' not found: %w", listingID, ErrNotFound)
		}
		return fmt.Errorf("failed to update listing with ID '%s': %w", listingID, err)
	}
	return nil
}

// SetStatus transitions a listing's moderation status.
func (r *firestoreListingRepository) SetStatus(ctx context.Context, listingID string, st models.Status) error {
	return r.Update(ctx, listingID, map[string]interface{}{"status": string(st)})
}

// SoftDelete marks a listing as deleted. The document is never removed; every
// query in this repository filters on is_deleted == false instead.
func (r *firestoreListingRepository) SoftDelete(ctx context.Context, listingID string) error {
	return r.Update(ctx, listingID, map[string]interface{}{"is_deleted": true})
}
