// Package main implements the entry point for the API gateway, the single
// public surface in front of the auth, task, and notification services.
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
	"github.com/phrazzld/taskhub-api/internal/gateway"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/platform/redisstore"
)

const serviceName = "api-gateway"

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
		"auth_backend", cfg.Gateway.AuthServiceURL,
		"task_backend", cfg.Gateway.TaskServiceURL,
		"notification_backend", cfg.Gateway.NotificationServiceURL)

	redisClient, err := redisstore.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	authClient := gateway.NewAuthClient(
		cfg.Gateway.AuthServiceURL,
		time.Duration(cfg.Gateway.ProxyTimeoutSeconds)*time.Second,
	)
	tokenCache := gateway.NewTokenCache(
		redisClient,
		time.Duration(cfg.Gateway.TokenCacheTTLSeconds)*time.Second,
		appLogger,
	)

	gw, err := gateway.NewGateway(gateway.Config{
		AuthServiceURL:         cfg.Gateway.AuthServiceURL,
		TaskServiceURL:         cfg.Gateway.TaskServiceURL,
		NotificationServiceURL: cfg.Gateway.NotificationServiceURL,
		ProxyTimeout:           time.Duration(cfg.Gateway.ProxyTimeoutSeconds) * time.Second,
	}, authClient, tokenCache, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	limiter := gateway.NewRateLimiter(cfg.Gateway.RateLimitPerSecond, cfg.Gateway.RateLimitBurst)
	router := setupRouter(cfg, gw, limiter)

	return httpserver.Run(ctx, cfg.Server.Port, router, appLogger)
}

func setupRouter(cfg *config.Config, gw *gateway.Gateway, limiter *gateway.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)
	r.Use(limiter.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", api.NewHealthHandler(serviceName))
	gw.Routes(r)

	return r
}
