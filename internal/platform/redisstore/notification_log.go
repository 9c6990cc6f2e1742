package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// RedisNotificationLog implements store.NotificationLog as one Redis list per
// user under notifications:user:{id}, newest first, trimmed to a fixed cap.
//
// MarkRead rewrites a single entry in place with LSET after locating it, and
// a per-user in-process lock serializes concurrent MarkRead/Append for the
// same user so the located index cannot shift under the LSET.
type RedisNotificationLog struct {
	client *redis.Client
	cap    int
	logger *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewRedisNotificationLog creates a Redis-backed notification log capped at
// the given number of entries per user.
func NewRedisNotificationLog(client *redis.Client, cap int, log *slog.Logger) *RedisNotificationLog {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if cap <= 0 {
		cap = 100
	}
	if log == nil {
		log = slog.Default()
	}

	return &RedisNotificationLog{
		client: client,
		cap:    cap,
		logger: log.With(slog.String("component", "notification_log")),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Ensure RedisNotificationLog implements store.NotificationLog.
var _ store.NotificationLog = (*RedisNotificationLog)(nil)

func logKey(userID int64) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// userLock returns the lock guarding one user's log.
func (l *RedisNotificationLog) userLock(userID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}

// Append implements store.NotificationLog.Append. Push and trim run in one
// pipeline so the log can never be observed over its cap.
func (l *RedisNotificationLog) Append(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	lock := l.userLock(n.UserID)
	lock.Lock()
	defer lock.Unlock()

	key := logKey(n.UserID)
	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(l.cap-1))
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("failed to append notification",
			slog.String("error", err.Error()),
			slog.Int64("user_id", n.UserID))
		return fmt.Errorf("failed to append notification: %w", err)
	}

	l.logger.Debug("notification appended",
		slog.Int64("notification_id", n.ID),
		slog.Int64("user_id", n.UserID))
	return nil
}

// List implements store.NotificationLog.List. Undecodable entries are skipped
// rather than failing the whole read.
func (l *RedisNotificationLog) List(ctx context.Context, userID int64) ([]domain.Notification, error) {
	entries, err := l.client.LRange(ctx, logKey(userID), 0, -1).Result()
	if err != nil {
		l.logger.Error("failed to read notification log",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to read notification log: %w", err)
	}

	notifications := make([]domain.Notification, 0, len(entries))
	for _, raw := range entries {
		var n domain.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			l.logger.Warn("skipping undecodable notification entry",
				slog.String("error", err.Error()),
				slog.Int64("user_id", userID))
			continue
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

// MarkRead implements store.NotificationLog.MarkRead with a keyed in-place
// update: locate the entry by ID, then LSET only that index.
func (l *RedisNotificationLog) MarkRead(ctx context.Context, id, userID int64) error {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	key := logKey(userID)
	entries, err := l.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read notification log: %w", err)
	}

	for i, raw := range entries {
		var n domain.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			continue
		}
		if n.ID != id {
			continue
		}

		if n.Read {
			return nil
		}

		n.Read = true
		payload, err := json.Marshal(&n)
		if err != nil {
			return fmt.Errorf("failed to encode notification: %w", err)
		}
		if err := l.client.LSet(ctx, key, int64(i), payload).Err(); err != nil {
			l.logger.Error("failed to mark notification read",
				slog.String("error", err.Error()),
				slog.Int64("notification_id", id),
				slog.Int64("user_id", userID))
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		return nil
	}

	return store.ErrNotificationNotFound
}
