// Package main implements the entry point for the task service, which owns
// task CRUD, the per-user task list cache, and notification dispatch.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phrazzld/taskhub-api/internal/api"
	apimiddleware "github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/notifier"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/platform/postgres"
	"github.com/phrazzld/taskhub-api/internal/platform/redisstore"
)

const serviceName = "task-service"

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

	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	taskCache := redisstore.NewRedisTaskCache(
		redisClient,
		time.Duration(cfg.Task.CacheTTLSeconds)*time.Second,
		appLogger,
	)
	sessionStore := redisstore.NewRedisSessionStore(redisClient, appLogger)

	dispatcher := notifier.NewClient(
		cfg.Task.NotificationURL,
		time.Duration(cfg.Task.NotifyTimeoutSeconds)*time.Second,
		appLogger,
	)

	taskHandler := api.NewTaskHandler(taskStore, taskCache, dispatcher)
	identity := apimiddleware.NewIdentity(sessionStore)

	router := setupRouter(cfg, taskHandler, identity)

	return httpserver.Run(ctx, cfg.Server.Port, router, appLogger)
}

func setupRouter(cfg *config.Config, taskHandler *api.TaskHandler, identity *apimiddleware.Identity) http.Handler {
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

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(identity.Require)

		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
		r.Patch("/{id}/done", taskHandler.Done)
		r.Patch("/{id}/reactivate", taskHandler.Reactivate)
	})

	return r
}
