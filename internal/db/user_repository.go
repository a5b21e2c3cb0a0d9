package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"listinghub-go/internal/models"
)

// UsersCollection is the Firestore collection holding user profile documents,
// keyed by Firebase Auth UID.
const UsersCollection = "users"

// firestoreUserRepository implements UserRepository using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new Firestore-backed UserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		panic("Firestore client is not initialized for UserRepository")
	}
	return &firestoreUserRepository{client: client}
}

// GetByID retrieves a user profile by Firebase Auth UID.
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(UsersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID
	return &user, nil
}

// GetOrCreate returns the existing profile for user.ID, creating a fresh one
// (IsAdmin=false) if none exists. The second return value reports whether the
// profile was newly created. The admin flag is never set here; an out-of-band
// administrative process owns it.
func (r *firestoreUserRepository) GetOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error) {
	if user == nil || user.ID == "" {
		return nil, false, errors.New("user ID cannot be empty for GetOrCreate operation")
	}

	existing, err := r.GetByID(ctx, user.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	user.IsAdmin = false
	if _, err := r.client.Collection(UsersCollection).Doc(user.ID).Create(ctx, user); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			// Lost a create race; the other writer's document wins.
			existing, getErr := r.GetByID(ctx, user.ID)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return user, true, nil
}
