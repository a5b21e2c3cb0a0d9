package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"listinghub-go/internal/core"
	"listinghub-go/internal/middleware"
)

// SetupRoutes wires all endpoints. Global middleware (logging, recovery,
// CORS) is applied to the router before this is called, in cmd/server.
//
// The route shapes match what the web and CLI clients consume:
//
//	POST   /products/generate-ai-description
//	POST   /products/
//	GET    /products/my-products
//	GET    /products/:id
//	PATCH  /products/:id
//	DELETE /products/:id
//	GET    /admin/products?status=
//	PATCH  /admin/products/:id/status
//	POST   /users/initialize
//	GET    /users/me
//	GET    /health
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
	listingService core.ListingService,
	userService core.UserService,
	aiService core.AIService,
) {
	listingHandler := NewListingHandler(listingService, userService, aiService, logger)
	adminHandler := NewAdminHandler(listingService, logger)
	userHandler := NewUserHandler(userService, logger)

	products := router.Group("/products", authMW.VerifyToken())
	{
		products.POST("/generate-ai-description", listingHandler.GenerateAIDescription)
		products.POST("/", listingHandler.CreateListing)
		products.GET("/my-products", listingHandler.GetMyListings)
		products.GET("/:id", listingHandler.GetListing)
		products.PATCH("/:id", listingHandler.UpdateListing)
		products.DELETE("/:id", listingHandler.DeleteListing)
	}

	admin := router.Group("/admin", authMW.VerifyToken(), authMW.RequireAdmin())
	{
		admin.GET("/products", adminHandler.ListAllListings)
		admin.PATCH("/products/:id/status", adminHandler.UpdateListingStatus)
	}

	users := router.Group("/users", authMW.VerifyToken())
	{
		users.POST("/initialize", userHandler.InitializeProfile)
		users.GET("/me", userHandler.GetCurrentUser)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured")
}
