package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listinghub-go/internal/client/clienterr"
	"listinghub-go/internal/models"
)

type staticTokens string

func (s staticTokens) IDToken(ctx context.Context) (string, error) {
	return string(s), nil
}

func TestClient_AttachesBearerTokenWhenSignedIn(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Listing{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("tok-123"))
	_, err := c.GetMyListings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_OmitsAuthorizationHeaderWhenSignedOut(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var hadHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "authorization header required"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens(""))
	_, err := c.GetMyListings(context.Background())

	assert.Empty(t, gotAuth)
	assert.False(t, hadHeader)

	var authErr *clienterr.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.True(t, authErr.Unauthenticated)
}

func TestClient_CreateListingPostsBodyAndReturnsID(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody models.CreateListingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "new-listing", "status": "pending"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("tok"))
	id, err := c.CreateListing(context.Background(), models.CreateListingRequest{
		Title:       "Lamp",
		Description: "A lamp.",
		ImageURL:    "https://storage.example/x",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-listing", id)
	assert.Equal(t, "/products/", gotPath)
	assert.Equal(t, "Lamp", gotBody.Title)
}

func TestClient_UpdateListingStatusHitsAdminRoute(t *testing.T) {
	t.Parallel()

	var gotPath, gotMethod string
	var gotBody models.StatusUpdateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"message": "updated"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("tok"))
	err := c.UpdateListingStatus(context.Background(), "l1", models.StatusApproved)

	require.NoError(t, err)
	assert.Equal(t, "/admin/products/l1/status", gotPath)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, models.StatusApproved, gotBody.Status)
}

func TestClient_GetAllListingsStatusFilter(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]models.Listing{{ID: "p1", Status: models.StatusPending}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("tok"))

	listings, err := c.GetAllListings(context.Background(), models.StatusPending)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "status=pending", gotQuery)

	_, err = c.GetAllListings(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestClient_ErrorMappingByStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   map[string]string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to unauthenticated AuthError",
			status: http.StatusUnauthorized,
			body:   map[string]string{"error": "invalid or expired token"},
			check: func(t *testing.T, err error) {
				var authErr *clienterr.AuthError
				require.ErrorAs(t, err, &authErr)
				assert.True(t, authErr.Unauthenticated)
				assert.Contains(t, authErr.Reason, "invalid or expired token")
			},
		},
		{
			name:   "403 maps to AuthorizationError",
			status: http.StatusForbidden,
			body:   map[string]string{"error": "admin access required"},
			check: func(t *testing.T, err error) {
				var authzErr *clienterr.AuthorizationError
				require.ErrorAs(t, err, &authzErr)
				assert.Contains(t, authzErr.Reason, "admin access required")
			},
		},
		{
			name:   "404 maps to NotFoundError",
			status: http.StatusNotFound,
			body:   map[string]string{"error": "product not found"},
			check: func(t *testing.T, err error) {
				var nfErr *clienterr.NotFoundError
				require.ErrorAs(t, err, &nfErr)
			},
		},
		{
			name:   "500 passes the server detail through verbatim",
			status: http.StatusInternalServerError,
			body:   map[string]string{"error": "internal error", "details": "firestore write failed"},
			check: func(t *testing.T, err error) {
				var apiErr *clienterr.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Equal(t, "firestore write failed", apiErr.Detail)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, staticTokens("tok"))
			_, err := c.GetMyListings(context.Background())

			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_DeleteListingEscapesID(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("tok"))
	require.NoError(t, c.DeleteListing(context.Background(), "id with space"))

	assert.Equal(t, "/products/id%20with%20space", gotPath)
}
