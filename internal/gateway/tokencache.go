package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/phrazzld/taskhub-api/internal/store"
)

const tokenKeyPrefix = "gwtoken:"

// TokenCache is the gateway's short-TTL cache of validated bearer tokens.
// A session revoked at the auth service can stay valid here until its entry
// expires; that staleness window is a documented property of the design, not
// something the cache tries to close.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewTokenCache creates a token cache with the given TTL.
func NewTokenCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *TokenCache {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TokenCache{
		client: client,
		ttl:    ttl,
		logger: log.With(slog.String("component", "token_cache")),
	}
}

// Get returns the cached identity for a token. Returns store.ErrCacheMiss
// when no entry is present.
func (c *TokenCache) Get(ctx context.Context, token string) (*Identity, error) {
	val, err := c.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal([]byte(val), &identity); err != nil {
		c.logger.Warn("dropping undecodable token cache entry", "error", err)
		_ = c.client.Del(ctx, tokenKeyPrefix+token).Err()
		return nil, store.ErrCacheMiss
	}

	return &identity, nil
}

// Set caches the identity behind a token for the cache TTL.
func (c *TokenCache) Set(ctx context.Context, token string, identity *Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	if err := c.client.Set(ctx, tokenKeyPrefix+token, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to populate token cache: %w", err)
	}

	return nil
}
