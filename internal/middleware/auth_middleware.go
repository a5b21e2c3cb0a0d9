package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"listinghub-go/internal/core"
)

// Context keys populated by VerifyToken for downstream handlers.
const (
	ContextUserID      = "userID"
	ContextUserEmail   = "userEmail"
	ContextDisplayName = "userDisplayName"
	ContextIsAdmin     = "userIsAdmin"
)

// errorResponse mirrors api.ErrorResponse; defined locally to avoid an import
// cycle with the api package.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware verifies Firebase ID tokens and resolves admin privilege.
type AuthMiddleware struct {
	authClient  *auth.Client
	userService core.UserService
	logger      *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. A nil auth client is a
// setup error the server cannot run with.
func NewAuthMiddleware(authClient *auth.Client, userService core.UserService, logger *zap.Logger) *AuthMiddleware {
	if authClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{authClient: authClient, userService: userService, logger: logger}
}

// VerifyToken validates the Bearer ID token from the Authorization header and
// stores the caller's UID, email and display name in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.authClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Warn("failed to verify ID token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextUserID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ContextUserEmail, email)
		}
		if name, ok := token.Claims["name"].(string); ok {
			c.Set(ContextDisplayName, name)
		}

		c.Next()
	}
}

// RequireAdmin allows the request through only when the caller's user record
// carries is_admin. The flag lives on the users/{uid} document, not in token
// claims; an external administrative process owns it. Must run after
// VerifyToken.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(ContextUserID)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
			return
		}

		user, err := m.userService.GetByID(c.Request.Context(), uid)
		if err != nil {
			m.logger.Warn("admin lookup failed", zap.String("uid", uid), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: "Admin access required"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: "Admin access required"})
			return
		}

		c.Set(ContextIsAdmin, true)
		c.Next()
	}
}
