package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// TokenValidator checks a bearer token against the auth service.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

// IdentityCache caches validated identities keyed by token.
type IdentityCache interface {
	Get(ctx context.Context, token string) (*Identity, error)
	Set(ctx context.Context, token string, identity *Identity) error
}

// Gateway routes client requests to the backing services, authenticating
// protected routes before forwarding.
type Gateway struct {
	validator TokenValidator
	cache     IdentityCache
	logger    *slog.Logger

	authProxy         *httputil.ReverseProxy
	taskProxy         *httputil.ReverseProxy
	notificationProxy *httputil.ReverseProxy
}

// Config carries the gateway's backend addresses and the outbound timeout
// applied to every proxied call. A zero ProxyTimeout leaves the default
// transport untouched.
type Config struct {
	AuthServiceURL         string
	TaskServiceURL         string
	NotificationServiceURL string
	ProxyTimeout           time.Duration
}

// NewGateway creates a gateway with one reverse proxy per backing service.
func NewGateway(cfg Config, validator TokenValidator, cache IdentityCache, logger *slog.Logger) (*Gateway, error) {
	if validator == nil {
		panic("token validator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "gateway"))

	authProxy, err := newProxy(cfg.AuthServiceURL, cfg.ProxyTimeout, logger)
	if err != nil {
		return nil, err
	}
	taskProxy, err := newProxy(cfg.TaskServiceURL, cfg.ProxyTimeout, logger)
	if err != nil {
		return nil, err
	}
	notificationProxy, err := newProxy(cfg.NotificationServiceURL, cfg.ProxyTimeout, logger)
	if err != nil {
		return nil, err
	}

	return &Gateway{
		validator:         validator,
		cache:             cache,
		logger:            logger,
		authProxy:         authProxy,
		taskProxy:         taskProxy,
		notificationProxy: notificationProxy,
	}, nil
}

// Routes mounts the gateway's route table. Register, login, and token
// validation pass through unauthenticated; everything else under /api
// requires a bearer token and is forwarded with identity headers attached.
func (g *Gateway) Routes(r chi.Router) {
	r.Post("/api/auth/register", g.forward(g.authProxy))
	r.Post("/api/auth/login", g.forward(g.authProxy))
	r.Get("/api/auth/validate", g.forward(g.authProxy))

	r.Group(func(r chi.Router) {
		r.Use(g.Authenticate)

		r.Handle("/api/auth/*", g.authProxy)
		r.Handle("/api/users", g.authProxy)
		r.Handle("/api/users/*", g.authProxy)
		r.Handle("/api/profile", g.authProxy)

		r.Handle("/api/tasks", g.taskProxy)
		r.Handle("/api/tasks/*", g.taskProxy)

		r.Handle("/api/notifications", g.notificationProxy)
		r.Handle("/api/notifications/*", g.notificationProxy)
		r.Handle("/api/send", g.notificationProxy)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
	})
}

func (g *Gateway) forward(proxy *httputil.ReverseProxy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A client must not be able to smuggle identity headers past the
		// authentication boundary on public routes.
		r.Header.Del(middleware.UserIDHeader)
		r.Header.Del(middleware.UserEmailHeader)
		proxy.ServeHTTP(w, r)
	}
}

// Authenticate resolves the bearer token to an identity, consulting the
// cache before the auth service, and stamps the identity headers onto the
// forwarded request.
func (g *Gateway) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		identity, err := g.resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, ErrTokenRejected) {
				shared.RespondWithError(w, r, http.StatusForbidden, "Invalid or expired token")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
				"Service unavailable", err)
			return
		}

		r.Header.Set(middleware.UserIDHeader, strconv.FormatInt(identity.ID, 10))
		r.Header.Set(middleware.UserEmailHeader, identity.Email)

		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) resolve(ctx context.Context, token string) (*Identity, error) {
	if g.cache != nil {
		identity, err := g.cache.Get(ctx, token)
		if err == nil {
			return identity, nil
		}
		if !errors.Is(err, store.ErrCacheMiss) {
			g.logger.Warn("token cache read failed", "error", err)
		}
	}

	identity, err := g.validator.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, token, identity); err != nil {
			g.logger.Warn("token cache write failed", "error", err)
		}
	}

	return identity, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
