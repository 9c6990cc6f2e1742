package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrQueueEmpty is returned by Dequeue when the blocking pop times out
// without receiving a job.
var ErrQueueEmpty = errors.New("queue is empty")

// Queue is a durable FIFO work queue on a Redis list. Producers LPUSH,
// consumers BRPOP, so jobs survive consumer restarts and delivery is
// at-least-once when consumers re-enqueue on failure.
type Queue struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewQueue creates a queue on the given Redis list key.
func NewQueue(client *redis.Client, key string, log *slog.Logger) *Queue {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Queue{
		client: client,
		key:    key,
		logger: log.With(slog.String("component", "queue"), slog.String("queue_key", key)),
	}
}

// Enqueue pushes a payload onto the queue.
func (q *Queue) Enqueue(ctx context.Context, payload []byte) error {
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		q.logger.Error("failed to enqueue job", slog.String("error", err.Error()))
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	q.logger.Debug("job enqueued", slog.Int("payload_bytes", len(payload)))
	return nil
}

// Dequeue blocks for up to timeout waiting for a job. Returns ErrQueueEmpty
// on timeout so workers can loop and re-check their context.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQueueEmpty
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	// BRPop returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(res))
	}

	return []byte(res[1]), nil
}

// Len reports the number of pending jobs.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length: %w", err)
	}
	return n, nil
}
