// Package main implements the entry point for the auth service, which owns
// user accounts, login sessions, and bearer token issuance.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phrazzld/taskhub-api/internal/api"
	apimiddleware "github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/platform/postgres"
	"github.com/phrazzld/taskhub-api/internal/platform/redisstore"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
)

const serviceName = "auth-service"

func main() {
	if err := run(); err != nil {
		log.Fatalf("%s failed: %v", serviceName, err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server, serviceName)
	appLogger.Info("Configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redisstore.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	userStore := postgres.NewPostgresUserStore(db, appLogger)
	sessionStore := redisstore.NewRedisSessionStore(redisClient, appLogger)

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	hasher := auth.NewBcryptHasher()

	authHandler := api.NewAuthHandler(userStore, sessionStore, tokenService, hasher, hasher, &cfg.Auth)
	identity := apimiddleware.NewIdentity(sessionStore)
	bearer := apimiddleware.NewBearerAuth(tokenService)

	router := setupRouter(cfg, authHandler, identity, bearer)

	return httpserver.Run(ctx, cfg.Server.Port, router, appLogger)
}

func setupRouter(
	cfg *config.Config,
	authHandler *api.AuthHandler,
	identity *apimiddleware.Identity,
	bearer *apimiddleware.BearerAuth,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", api.NewHealthHandler(serviceName))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)

		r.Group(func(r chi.Router) {
			r.Use(bearer.Authenticate)
			r.Get("/auth/validate", authHandler.Validate)
			r.Get("/profile", authHandler.Profile)
		})

		r.Group(func(r chi.Router) {
			r.Use(identity.Require)
			r.Get("/users", authHandler.ListUsers)
		})
	})

	return r
}
