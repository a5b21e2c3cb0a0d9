package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"listinghub-go/internal/core"
	"listinghub-go/internal/models"
)

func adminTestRouter(ls core.ListingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAdminHandler(ls, zap.NewNop())
	router.GET("/admin/products", h.ListAllListings)
	router.PATCH("/admin/products/:id/status", h.UpdateListingStatus)
	return router
}

func TestListAllListings_ReturnsListings(t *testing.T) {
	ls := &fakeListingService{adminAll: []*models.Listing{
		{ID: "l1", Status: models.StatusPending},
		{ID: "l2", Status: models.StatusApproved},
	}}
	router := adminTestRouter(ls)

	w := doJSON(t, router, http.MethodGet, "/admin/products", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var listings []models.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	assert.Len(t, listings, 2)
}

func TestListAllListings_InvalidFilterMapsTo400(t *testing.T) {
	router := adminTestRouter(&fakeListingService{adminErr: core.ErrInvalidStatus})

	w := doJSON(t, router, http.MethodGet, "/admin/products?status=bogus", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAllListings_EmptyResultIsJSONArray(t *testing.T) {
	router := adminTestRouter(&fakeListingService{})

	w := doJSON(t, router, http.MethodGet, "/admin/products", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestUpdateListingStatus_Approves(t *testing.T) {
	ls := &fakeListingService{}
	router := adminTestRouter(ls)

	w := doJSON(t, router, http.MethodPatch, "/admin/products/l1/status",
		models.StatusUpdateRequest{Status: models.StatusApproved})

	require.Equal(t, http.StatusOK, w.Code)
	var resp StatusUpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "l1", resp.ListingID)
	assert.Equal(t, "approved", resp.NewStatus)
	assert.Equal(t, []string{"l1:approved"}, ls.setStatuses)
}

func TestUpdateListingStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid status maps to 400", core.ErrInvalidStatus, http.StatusBadRequest},
		{"unknown listing maps to 404", core.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := adminTestRouter(&fakeListingService{setErr: tt.err})

			w := doJSON(t, router, http.MethodPatch, "/admin/products/l1/status",
				models.StatusUpdateRequest{Status: models.StatusApproved})

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestUpdateListingStatus_RejectsMissingBody(t *testing.T) {
	router := adminTestRouter(&fakeListingService{})

	w := doJSON(t, router, http.MethodPatch, "/admin/products/l1/status", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
