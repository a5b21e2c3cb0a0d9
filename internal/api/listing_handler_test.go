package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"listinghub-go/internal/core"
	"listinghub-go/internal/middleware"
	"listinghub-go/internal/models"
)

type fakeListingService struct {
	created     []models.CreateListingRequest
	createErr   error
	mine        []*models.Listing
	getListing  *models.Listing
	getErr      error
	updateErr   error
	deleteErr   error
	adminAll    []*models.Listing
	adminErr    error
	setStatuses []string
	setErr      error
}

func (f *fakeListingService) Create(ctx context.Context, ownerID string, req models.CreateListingRequest) (*models.Listing, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &models.Listing{ID: "listing-1", Title: req.Title, UserID: ownerID, Status: models.StatusPending}, nil
}

func (f *fakeListingService) GetMine(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	return f.mine, nil
}

func (f *fakeListingService) Get(ctx context.Context, requesterID string, requesterIsAdmin bool, listingID string) (*models.Listing, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getListing, nil
}

func (f *fakeListingService) Update(ctx context.Context, requesterID string, listingID string, req models.UpdateListingRequest) error {
	return f.updateErr
}

func (f *fakeListingService) Delete(ctx context.Context, requesterID string, listingID string) error {
	return f.deleteErr
}

func (f *fakeListingService) AdminList(ctx context.Context, status models.Status) ([]*models.Listing, error) {
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.adminAll, nil
}

func (f *fakeListingService) AdminSetStatus(ctx context.Context, listingID string, status models.Status) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setStatuses = append(f.setStatuses, listingID+":"+string(status))
	return nil
}

type fakeUserService struct {
	user *models.User
	err  error
}

func (f *fakeUserService) GetOrCreate(ctx context.Context, uid, email, displayName string) (*models.User, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.user, false, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, uid string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeAIService struct {
	result *models.AIGenerationResult
	err    error
}

func (f *fakeAIService) GenerateDescription(ctx context.Context, imageData string) (*models.AIGenerationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// testRouter registers the listing routes behind a stub auth middleware that
// injects the given UID.
func testRouter(uid string, ls core.ListingService, us core.UserService, ai core.AIService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if uid != "" {
			c.Set(middleware.ContextUserID, uid)
		}
	})

	h := NewListingHandler(ls, us, ai, zap.NewNop())
	router.POST("/products/generate-ai-description", h.GenerateAIDescription)
	router.POST("/products/", h.CreateListing)
	router.GET("/products/my-products", h.GetMyListings)
	router.GET("/products/:id", h.GetListing)
	router.PATCH("/products/:id", h.UpdateListing)
	router.DELETE("/products/:id", h.DeleteListing)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateListing_ReturnsIDAndPendingStatus(t *testing.T) {
	ls := &fakeListingService{}
	router := testRouter("u1", ls, &fakeUserService{}, &fakeAIService{})

	w := doJSON(t, router, http.MethodPost, "/products/", models.CreateListingRequest{
		Title:       "Lamp",
		Description: "A lamp.",
		ImageURL:    "https://storage.example/x",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp CreateListingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "listing-1", resp.ID)
	assert.Equal(t, "pending", resp.Status)
	require.Len(t, ls.created, 1)
}

func TestCreateListing_RejectsInvalidBody(t *testing.T) {
	router := testRouter("u1", &fakeListingService{}, &fakeUserService{}, &fakeAIService{})

	w := doJSON(t, router, http.MethodPost, "/products/", map[string]string{"title": "only a title"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateListing_RequiresAuthenticatedCaller(t *testing.T) {
	router := testRouter("", &fakeListingService{}, &fakeUserService{}, &fakeAIService{})

	w := doJSON(t, router, http.MethodPost, "/products/", models.CreateListingRequest{
		Title: "Lamp", Description: "A lamp.", ImageURL: "u",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMyListings_EmptyResultIsJSONArray(t *testing.T) {
	router := testRouter("u1", &fakeListingService{}, &fakeUserService{}, &fakeAIService{})

	w := doJSON(t, router, http.MethodGet, "/products/my-products", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestGetListing_ServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found maps to 404", core.ErrNotFound, http.StatusNotFound},
		{"access denied maps to 403", core.ErrAccessDenied, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter("u1", &fakeListingService{getErr: tt.err}, &fakeUserService{err: core.ErrNotFound}, &fakeAIService{})

			w := doJSON(t, router, http.MethodGet, "/products/l1", nil)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestUpdateListing_EmptyBodyMapsTo400(t *testing.T) {
	router := testRouter("u1", &fakeListingService{updateErr: core.ErrNoUpdateData}, &fakeUserService{}, &fakeAIService{})

	w := doJSON(t, router, http.MethodPatch, "/products/l1", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteListing_Succeeds(t *testing.T) {
	router := testRouter("u1", &fakeListingService{}, &fakeUserService{}, &fakeAIService{})

	w := doJSON(t, router, http.MethodDelete, "/products/l1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Product deleted successfully", resp.Message)
}

func TestGenerateAIDescription_ReturnsDraft(t *testing.T) {
	ai := &fakeAIService{result: &models.AIGenerationResult{
		Title:       "Blue Mug",
		Description: "A blue mug.",
		Keywords:    []string{"mug"},
	}}
	router := testRouter("u1", &fakeListingService{}, &fakeUserService{}, ai)

	w := doJSON(t, router, http.MethodPost, "/products/generate-ai-description",
		models.AIGenerationRequest{ImageData: "data:image/png;base64,aGVsbG8="})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AIGenerationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Blue Mug", resp.Title)
}

func TestGenerateAIDescription_RequiresImageData(t *testing.T) {
	router := testRouter("u1", &fakeListingService{}, &fakeUserService{}, &fakeAIService{})

	w := doJSON(t, router, http.MethodPost, "/products/generate-ai-description", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
