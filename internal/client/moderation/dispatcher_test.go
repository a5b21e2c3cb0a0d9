package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listinghub-go/internal/client/clienterr"
	"listinghub-go/internal/models"
)

type fakeAPI struct {
	statusCalls []string
	deleteCalls []string
	statusErr   error
	deleteErr   error
}

func (f *fakeAPI) UpdateListingStatus(ctx context.Context, listingID string, status models.Status) error {
	f.statusCalls = append(f.statusCalls, listingID+":"+string(status))
	return f.statusErr
}

func (f *fakeAPI) DeleteListing(ctx context.Context, listingID string) error {
	f.deleteCalls = append(f.deleteCalls, listingID)
	return f.deleteErr
}

func alwaysConfirm(string) bool { return true }
func neverConfirm(string) bool  { return false }

func TestSetStatus_DispatchesApprovedAndRejected(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	d := NewDispatcher(api, alwaysConfirm)

	require.NoError(t, d.SetStatus(context.Background(), "l1", models.StatusApproved))
	require.NoError(t, d.SetStatus(context.Background(), "l2", models.StatusRejected))

	assert.Equal(t, []string{"l1:approved", "l2:rejected"}, api.statusCalls)
}

func TestSetStatus_RejectsOtherStatusesWithoutDispatch(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	d := NewDispatcher(api, alwaysConfirm)

	for _, status := range []models.Status{models.StatusPending, "deleted", ""} {
		err := d.SetStatus(context.Background(), "l1", status)
		var vErr *clienterr.ValidationError
		require.ErrorAs(t, err, &vErr, "status %q", status)
	}
	assert.Empty(t, api.statusCalls)
}

func TestSetStatus_SurfacesServerRejection(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{statusErr: &clienterr.AuthorizationError{Reason: "admin access required"}}
	d := NewDispatcher(api, alwaysConfirm)

	err := d.SetStatus(context.Background(), "l1", models.StatusApproved)

	var authzErr *clienterr.AuthorizationError
	require.ErrorAs(t, err, &authzErr)
}

func TestDeleteListing_DispatchesAfterConfirmation(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	var asked []string
	d := NewDispatcher(api, func(id string) bool {
		asked = append(asked, id)
		return true
	})

	require.NoError(t, d.DeleteListing(context.Background(), "l1"))

	assert.Equal(t, []string{"l1"}, asked)
	assert.Equal(t, []string{"l1"}, api.deleteCalls)
}

func TestDeleteListing_DeclinedConfirmationDispatchesNothing(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	d := NewDispatcher(api, neverConfirm)

	err := d.DeleteListing(context.Background(), "l1")

	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Empty(t, api.deleteCalls)
}

func TestDeleteListing_NilConfirmerRefuses(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	d := NewDispatcher(api, nil)

	assert.ErrorIs(t, d.DeleteListing(context.Background(), "l1"), ErrNotConfirmed)
	assert.Empty(t, api.deleteCalls)
}

func TestDeleteListing_SurfacesOwnershipRejection(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{deleteErr: &clienterr.AuthorizationError{Reason: "you can only delete your own products"}}
	d := NewDispatcher(api, alwaysConfirm)

	err := d.DeleteListing(context.Background(), "l1")

	var authzErr *clienterr.AuthorizationError
	require.ErrorAs(t, err, &authzErr)
}
