package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOOrder(t *testing.T) {
	_, client := newTestClient(t)
	q := NewQueue(client, "test:queue", nil)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, []byte("first")))
	require.NoError(t, q.Enqueue(ctx, []byte("second")))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	payload, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", string(payload))

	payload, err = q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "second", string(payload))
}

func TestQueueDequeueTimeout(t *testing.T) {
	_, client := newTestClient(t)
	q := NewQueue(client, "test:queue", nil)

	start := time.Now()
	_, err := q.Dequeue(context.Background(), 50*time.Millisecond)

	assert.ErrorIs(t, err, ErrQueueEmpty)
	assert.Less(t, time.Since(start), 5*time.Second, "timeout should return promptly")
}

func TestQueueIsolatedByKey(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	a := NewQueue(client, "queue:a", nil)
	b := NewQueue(client, "queue:b", nil)

	require.NoError(t, a.Enqueue(ctx, []byte("for-a")))

	_, err := b.Dequeue(ctx, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrQueueEmpty)

	payload, err := a.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "for-a", string(payload))
}
