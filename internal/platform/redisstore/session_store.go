package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// sessionKeyPrefix matches the key layout the task service reads, so both
// services resolve the same sessions.
const sessionKeyPrefix = "sid:"

// RedisSessionStore implements store.SessionStore on Redis string keys with
// native TTL expiry.
type RedisSessionStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, log *slog.Logger) *RedisSessionStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &RedisSessionStore{
		client: client,
		logger: log.With(slog.String("component", "session_store")),
	}
}

// Ensure RedisSessionStore implements store.SessionStore.
var _ store.SessionStore = (*RedisSessionStore)(nil)

// Create implements store.SessionStore.Create.
func (s *RedisSessionStore) Create(ctx context.Context, sid string, userID int64, ttl time.Duration) error {
	err := s.client.Set(ctx, sessionKeyPrefix+sid, strconv.FormatInt(userID, 10), ttl).Err()
	if err != nil {
		s.logger.Error("failed to store session",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get implements store.SessionStore.Get. Expired sessions are
// indistinguishable from deleted ones; both report ErrSessionNotFound.
func (s *RedisSessionStore) Get(ctx context.Context, sid string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+sid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, store.ErrSessionNotFound
		}
		s.logger.Error("failed to resolve session", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to resolve session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// A corrupted mapping must never resolve to a user.
		s.logger.Error("session resolved to a non-numeric user id",
			slog.String("value", val))
		return 0, store.ErrSessionNotFound
	}

	return userID, nil
}

// Delete implements store.SessionStore.Delete. Idempotent.
func (s *RedisSessionStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sid).Err(); err != nil {
		s.logger.Error("failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
