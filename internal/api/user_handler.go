package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"listinghub-go/internal/core"
	"listinghub-go/internal/db"
	"listinghub-go/internal/middleware"
)

// UserHandler handles user profile endpoints.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

// InitializeProfile handles POST /users/initialize. Clients call it after a
// Firebase sign-in so a users/{uid} record (the source of the admin flag)
// exists before anything reads it.
func (h *UserHandler) InitializeProfile(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}
	email := c.GetString(middleware.ContextUserEmail)
	displayName := c.GetString(middleware.ContextDisplayName)

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), uid, email, displayName)
	if err != nil {
		h.logger.Error("failed to initialize user profile", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user profile", Details: err.Error()})
		return
	}

	if created {
		c.JSON(http.StatusCreated, user)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetCurrentUser handles GET /users/me.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
			return
		}
		h.logger.Error("failed to fetch user profile", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user profile", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
