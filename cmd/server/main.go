package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"listinghub-go/internal/api"
	"listinghub-go/internal/config"
	"listinghub-go/internal/core"
	"listinghub-go/internal/db"
	"listinghub-go/internal/middleware"
)

func main() {
	// Load .env if present; in production the environment is set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	zapLogger, err := zap.NewProduction()
	if os.Getenv("GIN_MODE") != "release" {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.ValidateServer(); err != nil {
		zapLogger.Fatal("invalid server configuration", zap.Error(err))
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	clients, err := db.InitFirebase(initCtx, cfg)
	if err != nil {
		zapLogger.Fatal("failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()
	zapLogger.Info("Firebase Admin SDK initialized", zap.String("project", cfg.FirebaseProjectID))

	listingRepo := db.NewFirestoreListingRepository(clients.Firestore)
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)

	listingService := core.NewListingService(listingRepo, zapLogger)
	userService := core.NewUserService(userRepo)
	aiService := core.NewAIService(cfg.OpenAIAPIKey, zapLogger)

	if strings.ToLower(cfg.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.Recovery(zapLogger))
	if cfg.ClientURL != "" {
		router.Use(middleware.CORS(cfg.ClientURL))
		zapLogger.Info("CORS enabled", zap.String("client_url", cfg.ClientURL))
	} else {
		zapLogger.Warn("CORS disabled: CLIENT_URL is not configured")
	}

	authMW := middleware.NewAuthMiddleware(clients.Auth, userService, zapLogger)
	api.SetupRoutes(router, zapLogger, authMW, listingService, userService, aiService)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", httpServer.Addr), zap.String("gin_mode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("forced shutdown", zap.Error(err))
	}
	zapLogger.Info("server exited gracefully")
}
