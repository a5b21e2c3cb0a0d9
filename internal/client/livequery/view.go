package livequery

import (
	"context"

	"listinghub-go/internal/models"
)

// View is a single consumer slot whose query can change over time (e.g. an
// admin toggling between the pending-only and all filters). Swapping the
// query fully tears down the previous subscription before the new one is
// established, so a consumer never receives duplicate or mixed-filter
// deliveries.
type View struct {
	subscriber *Subscriber
	current    *Subscription
}

// NewView creates an empty view; no subscription exists until SetQuery.
func NewView(s *Subscriber) *View {
	return &View{subscriber: s}
}

// SetQuery replaces the view's query. The previous subscription (if any) is
// unsubscribed and fully terminated first; only then is the new subscription
// opened. Returns the new delivery channel.
func (v *View) SetQuery(ctx context.Context, q Query) <-chan Snapshot {
	if v.current != nil {
		v.current.Unsubscribe()
	}
	v.current = v.subscriber.Subscribe(ctx, q)
	return v.current.Snapshots()
}

// Close tears down the active subscription, if any. Safe to call repeatedly.
func (v *View) Close() {
	if v.current != nil {
		v.current.Unsubscribe()
		v.current = nil
	}
}

// OwnerQuery is the dashboard query: the owner's own non-deleted listings.
func OwnerQuery(collection, ownerID string) Query {
	return Query{
		Collection: collection,
		Filters: []Filter{
			{Path: "user_id", Value: ownerID},
			{Path: "is_deleted", Value: false},
		},
	}
}

// PendingQuery is the admin moderation queue: non-deleted pending listings.
func PendingQuery(collection string) Query {
	return Query{
		Collection: collection,
		Filters: []Filter{
			{Path: "status", Value: string(models.StatusPending)},
			{Path: "is_deleted", Value: false},
		},
	}
}

// AllQuery is the admin all-listings filter: every non-deleted listing.
func AllQuery(collection string) Query {
	return Query{
		Collection: collection,
		Filters: []Filter{
			{Path: "is_deleted", Value: false},
		},
	}
}
