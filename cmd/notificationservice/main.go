// Package main implements the entry point for the notification service,
// which accepts dispatch requests, works the Redis-backed job queue, and
// serves the per-user notification history.
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
	"github.com/phrazzld/taskhub-api/internal/notifier"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/platform/redisstore"
)

const serviceName = "notification-service"

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
		"log_level", cfg.Server.LogLevel,
		"workers", cfg.Notification.WorkerCount)

	redisClient, err := redisstore.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	queue := redisstore.NewQueue(redisClient, cfg.Notification.QueueKey, appLogger)
	notificationLog := redisstore.NewRedisNotificationLog(
		redisClient,
		cfg.Notification.HistoryLimit,
		appLogger,
	)
	mailer := notifier.NewMailer(cfg.Mail, appLogger)

	pool := notifier.NewWorkerPool(queue, notificationLog, mailer, notifier.WorkerPoolConfig{
		WorkerCount: cfg.Notification.WorkerCount,
		MaxAttempts: cfg.Notification.MaxAttempts,
	}, appLogger)
	pool.Start()

	notificationHandler := api.NewNotificationHandler(queue, notificationLog)
	router := setupRouter(cfg, notificationHandler)

	return httpserver.Run(ctx, cfg.Server.Port, router, appLogger, pool.Stop)
}

func setupRouter(cfg *config.Config, handler *api.NotificationHandler) http.Handler {
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

	r.Post("/api/send", handler.Send)
	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/{userId}", handler.History)
		r.Put("/{id}/read", handler.MarkRead)
	})

	return r
}
