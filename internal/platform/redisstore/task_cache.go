package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// RedisTaskCache implements store.TaskCache as one JSON-serialized list per
// user under tasks:user:{id}, expiring on a fixed TTL.
type RedisTaskCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisTaskCache creates a Redis-backed task list cache with the given TTL.
func NewRedisTaskCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisTaskCache {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &RedisTaskCache{
		client: client,
		ttl:    ttl,
		logger: log.With(slog.String("component", "task_cache")),
	}
}

// Ensure RedisTaskCache implements store.TaskCache.
var _ store.TaskCache = (*RedisTaskCache)(nil)

func cacheKey(userID int64) string {
	return fmt.Sprintf("tasks:user:%d", userID)
}

// Get implements store.TaskCache.Get. An entry that fails to decode is
// treated as a miss and dropped so the next write cannot resurrect it.
func (c *RedisTaskCache) Get(ctx context.Context, userID int64) ([]domain.Task, error) {
	val, err := c.client.Get(ctx, cacheKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrCacheMiss
		}
		c.logger.Error("failed to read task cache",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to read task cache: %w", err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal([]byte(val), &tasks); err != nil {
		c.logger.Warn("dropping undecodable task cache entry",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		_ = c.client.Del(ctx, cacheKey(userID)).Err()
		return nil, store.ErrCacheMiss
	}

	return tasks, nil
}

// Set implements store.TaskCache.Set.
func (c *RedisTaskCache) Set(ctx context.Context, userID int64, tasks []domain.Task) error {
	payload, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode task list: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(userID), payload, c.ttl).Err(); err != nil {
		c.logger.Error("failed to populate task cache",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return fmt.Errorf("failed to populate task cache: %w", err)
	}

	return nil
}

// Invalidate implements store.TaskCache.Invalidate.
func (c *RedisTaskCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		c.logger.Error("failed to invalidate task cache",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return fmt.Errorf("failed to invalidate task cache: %w", err)
	}
	return nil
}
