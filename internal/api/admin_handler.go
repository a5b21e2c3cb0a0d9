package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"listinghub-go/internal/core"
	"listinghub-go/internal/models"
)

// AdminHandler handles the /admin endpoints. The RequireAdmin middleware runs
// before every handler here; these methods assume an admin caller.
type AdminHandler struct {
	listingService core.ListingService
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ls core.ListingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{listingService: ls, logger: logger}
}

// ListAllListings handles GET /admin/products?status=.
func (h *AdminHandler) ListAllListings(c *gin.Context) {
	status := models.Status(c.Query("status"))

	listings, err := h.listingService.AdminList(c.Request.Context(), status)
	if err != nil {
		if err == core.ErrInvalidStatus {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidStatus.Error()})
			return
		}
		h.logger.Error("admin listing query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch products", Details: err.Error()})
		return
	}
	if listings == nil {
		listings = []*models.Listing{}
	}
	c.JSON(http.StatusOK, listings)
}

// UpdateListingStatus handles PATCH /admin/products/:id/status.
func (h *AdminHandler) UpdateListingStatus(c *gin.Context) {
	listingID := c.Param("id")

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	if err := h.listingService.AdminSetStatus(c.Request.Context(), listingID, req.Status); err != nil {
		switch err {
		case core.ErrInvalidStatus:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidStatus.Error()})
		case core.ErrNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product not found"})
		default:
			h.logger.Error("status update failed", zap.String("listing_id", listingID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update product status", Details: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, StatusUpdateResponse{
		Message:   statusMessage(req.Status),
		ListingID: listingID,
		NewStatus: string(req.Status),
	})
}
