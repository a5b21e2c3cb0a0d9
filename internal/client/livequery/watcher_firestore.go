package livequery

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"listinghub-go/internal/models"
)

// firestoreWatcher adapts firestore's snapshot listener to the Watcher
// interface. Firestore's QuerySnapshotIterator already has the semantics the
// subscriber needs: an initial result set followed by the full matching set
// on every remote change.
type firestoreWatcher struct {
	client *firestore.Client
}

// NewFirestoreSubscriber creates a Subscriber backed by Firestore snapshot
// listeners.
func NewFirestoreSubscriber(client *firestore.Client) *Subscriber {
	if client == nil {
		panic("Firestore client is not initialized for livequery")
	}
	return NewSubscriber(&firestoreWatcher{client: client})
}

func (w *firestoreWatcher) Watch(ctx context.Context, q Query) SnapshotIterator {
	query := w.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Path, "==", f.Value)
	}
	return &firestoreSnapshotIterator{iter: query.Snapshots(ctx)}
}

type firestoreSnapshotIterator struct {
	iter *firestore.QuerySnapshotIterator
}

func (it *firestoreSnapshotIterator) Next() ([]models.Listing, error) {
	qsnap, err := it.iter.Next()
	if err != nil {
		return nil, err
	}

	docs, err := qsnap.Documents.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot documents: %w", err)
	}

	listings := make([]models.Listing, 0, len(docs))
	for _, doc := range docs {
		var listing models.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, fmt.Errorf("failed to decode listing (ID: %s): %w", doc.Ref.ID, err)
		}
		listing.ID = doc.Ref.ID
		listings = append(listings, listing)
	}
	return listings, nil
}

func (it *firestoreSnapshotIterator) Stop() {
	it.iter.Stop()
}
