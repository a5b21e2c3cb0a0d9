// Package moderation dispatches approve/reject/delete actions to the remote
// API. No action mutates local state: the live subscription republishes the
// authoritative result, so there is nothing to reconcile and nothing to roll
// back on failure.
package moderation

import (
	"context"
	"errors"

	"listinghub-go/internal/client/clienterr"
	"listinghub-go/internal/models"
)

// ErrNotConfirmed is returned when the user declines the delete confirmation;
// nothing was dispatched.
var ErrNotConfirmed = errors.New("delete not confirmed")

// API is the subset of the REST client the dispatcher needs.
type API interface {
	UpdateListingStatus(ctx context.Context, listingID string, status models.Status) error
	DeleteListing(ctx context.Context, listingID string) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer func(listingID string) bool

// Dispatcher sends moderation mutations. Errors are surfaced to the caller
// for display; nothing is retried automatically.
type Dispatcher struct {
	api     API
	confirm Confirmer
}

// NewDispatcher creates a Dispatcher. confirm guards deletes; a nil confirm
// refuses every delete.
func NewDispatcher(api API, confirm Confirmer) *Dispatcher {
	return &Dispatcher{api: api, confirm: confirm}
}

// SetStatus requests an admin status transition to approved or rejected.
// Admin privilege is enforced server-side; the client only asks. On success
// there is no local mutation; the UI observes the change through the live
// subscription.
func (d *Dispatcher) SetStatus(ctx context.Context, listingID string, status models.Status) error {
	if status != models.StatusApproved && status != models.StatusRejected {
		return &clienterr.ValidationError{Reason: "status must be 'approved' or 'rejected'"}
	}
	if listingID == "" {
		return &clienterr.ValidationError{Reason: "listing id is required"}
	}
	return d.api.UpdateListingStatus(ctx, listingID, status)
}

// DeleteListing requests a soft delete of an owned listing. The action is
// irreversible from this client, so it is dispatched only after explicit
// confirmation. Ownership is enforced server-side; a 403 comes back as an
// AuthorizationError and the listing stays visible in subsequent snapshots.
func (d *Dispatcher) DeleteListing(ctx context.Context, listingID string) error {
	if listingID == "" {
		return &clienterr.ValidationError{Reason: "listing id is required"}
	}
	if d.confirm == nil || !d.confirm(listingID) {
		return ErrNotConfirmed
	}
	return d.api.DeleteListing(ctx, listingID)
}
