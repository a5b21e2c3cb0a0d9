package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"listinghub-go/internal/core"
	"listinghub-go/internal/middleware"
	"listinghub-go/internal/models"
)

// ListingHandler handles the /products endpoints.
type ListingHandler struct {
	listingService core.ListingService
	userService    core.UserService
	aiService      core.AIService
	logger         *zap.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(ls core.ListingService, us core.UserService, ai core.AIService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{listingService: ls, userService: us, aiService: ai, logger: logger}
}

// GenerateAIDescription handles POST /products/generate-ai-description.
func (h *ListingHandler) GenerateAIDescription(c *gin.Context) {
	var req models.AIGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	result, err := h.aiService.GenerateDescription(c.Request.Context(), req.ImageData)
	if err != nil {
		h.logger.Error("AI generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate description", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateListing handles POST /products/. The owner is always the token's UID
// and the status is forced to pending server-side.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), uid, req)
	if err != nil {
		h.logger.Error("failed to create listing", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create product", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, CreateListingResponse{
		ID:      listing.ID,
		Message: "Product created successfully",
		Status:  string(listing.Status),
	})
}

// GetMyListings handles GET /products/my-products.
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	listings, err := h.listingService.GetMine(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("failed to list products", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch products", Details: err.Error()})
		return
	}
	if listings == nil {
		listings = []*models.Listing{}
	}
	c.JSON(http.StatusOK, listings)
}

// GetListing handles GET /products/:id. Owner or admin only.
func (h *ListingHandler) GetListing(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	listingID := c.Param("id")

	isAdmin := false
	if user, err := h.userService.GetByID(c.Request.Context(), uid); err == nil {
		isAdmin = user.IsAdmin
	}

	listing, err := h.listingService.Get(c.Request.Context(), uid, isAdmin, listingID)
	if err != nil {
		h.respondServiceError(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// UpdateListing handles PATCH /products/:id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	listingID := c.Param("id")

	var req models.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	if err := h.listingService.Update(c.Request.Context(), uid, listingID, req); err != nil {
		h.respondServiceError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Product updated successfully"})
}

// DeleteListing handles DELETE /products/:id. Soft delete only.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	listingID := c.Param("id")

	if err := h.listingService.Delete(c.Request.Context(), uid, listingID); err != nil {
		h.respondServiceError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

// respondServiceError maps service-level errors to HTTP statuses.
func (h *ListingHandler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product not found"})
	case errors.Is(err, core.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access denied"})
	case errors.Is(err, core.ErrNoUpdateData):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No update data provided"})
	case errors.Is(err, core.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidStatus.Error()})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback, Details: err.Error()})
	}
}

// statusMessage builds the admin status-transition confirmation text.
func statusMessage(status models.Status) string {
	return fmt.Sprintf("Product status updated to %s", status)
}
