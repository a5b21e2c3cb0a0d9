// Package projection derives the view state from a raw snapshot. The
// derivation is pure and total: every snapshot is recomputed from scratch,
// nothing carries over from the previous one.
package projection

import (
	"sort"

	"listinghub-go/internal/models"
)

// Projection is the derived view of one snapshot: all listings newest-first,
// plus the same ordering partitioned by moderation status. The partitions are
// disjoint and their union equals the input.
type Projection struct {
	All      []models.Listing
	Pending  []models.Listing
	Approved []models.Listing
	Rejected []models.Listing
}

// Project computes the projection for a snapshot. Ordering is by created
// timestamp descending; listings with identical timestamps keep their
// arrival order, so repeated runs on the same input are deterministic.
func Project(listings []models.Listing) Projection {
	all := make([]models.Listing, len(listings))
	copy(all, listings)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	p := Projection{All: all}
	for _, listing := range all {
		switch listing.Status {
		case models.StatusApproved:
			p.Approved = append(p.Approved, listing)
		case models.StatusRejected:
			p.Rejected = append(p.Rejected, listing)
		default:
			// Unknown statuses cannot occur by invariant; bucket them with
			// pending rather than dropping them from the partition union.
			p.Pending = append(p.Pending, listing)
		}
	}
	return p
}
