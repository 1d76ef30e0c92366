// Package main initializes and starts the sealbid vault/content server,
// setting up configuration, logging, database connections, repositories,
// services, handlers, and middleware.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/sealbid/sealbid/internal/config"
	"github.com/sealbid/sealbid/internal/db"
	"github.com/sealbid/sealbid/internal/logger"
	"github.com/sealbid/sealbid/internal/middleware"
	"github.com/sealbid/sealbid/internal/repository"
	"github.com/sealbid/sealbid/internal/server/handler/http"
	"github.com/sealbid/sealbid/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dbName := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Remove users that asked for a challenge but never logged in.
	// Bound users keep their credentials indefinitely.
	db.StartStaleChallengeCleaner(context.Background(), postgresDB,
		time.Hour,      // interval
		24*time.Hour,   // retention for unbound challenges
		zapLogger,
	)

	// Initialize repositories for auth, vault and content storage.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	vaultRepo := repository.NewPostgresVaultRepository(postgresDB)
	blobRepo := repository.NewPostgresBlobRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo)
	vaultService := service.NewVaultService(vaultRepo)
	contentService := service.NewContentService(blobRepo)

	// Create HTTP handlers for auth, vault and content endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	vaultHandler := &http.VaultHandler{VaultService: vaultService}
	contentHandler := &http.ContentHandler{ContentService: contentService}

	// Build the router with middleware and routes.
	limiter := middleware.NewRateLimiter(options.RateRPS, options.RateBurst)
	router := http.NewRouter(authHandler, vaultHandler, contentHandler, authService, limiter, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
