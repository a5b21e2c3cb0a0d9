package session

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"listinghub-go/internal/db"
)

// firestoreAdminLookup reads the admin flag from the users/{uid} document.
type firestoreAdminLookup struct {
	client *firestore.Client
}

// NewFirestoreAdminLookup creates an AdminLookup backed by Firestore.
func NewFirestoreAdminLookup(client *firestore.Client) AdminLookup {
	if client == nil {
		panic("Firestore client is not initialized for AdminLookup")
	}
	return &firestoreAdminLookup{client: client}
}

// IsAdmin reports whether the users/{uid} record carries is_admin. An absent
// record is an ordinary non-admin, not an error.
func (l *firestoreAdminLookup) IsAdmin(ctx context.Context, uid string) (bool, error) {
	docSnap, err := l.client.Collection(db.UsersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to read user record for '%s': %w", uid, err)
	}

	var record struct {
		IsAdmin bool `firestore:"is_admin"`
	}
	if err := docSnap.DataTo(&record); err != nil {
		return false, fmt.Errorf("failed to decode user record for '%s': %w", uid, err)
	}
	return record.IsAdmin, nil
}
