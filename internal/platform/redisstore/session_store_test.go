package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub-api/internal/store"
)

// newTestClient starts an in-process Redis and returns a client bound to it.
func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestSessionStoreRoundTrip(t *testing.T) {
	_, client := newTestClient(t)
	s := NewRedisSessionStore(client, nil)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "session-1", 42, time.Hour))

	userID, err := s.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestSessionStoreExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	s := NewRedisSessionStore(client, nil)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "session-1", 42, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, "session-1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionStoreGetUnknown(t *testing.T) {
	_, client := newTestClient(t)
	s := NewRedisSessionStore(client, nil)

	_, err := s.Get(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionStoreCorruptedValue(t *testing.T) {
	mr, client := newTestClient(t)
	s := NewRedisSessionStore(client, nil)

	require.NoError(t, mr.Set("sid:session-1", "not-a-number"))

	_, err := s.Get(context.Background(), "session-1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionStoreDeleteIsIdempotent(t *testing.T) {
	_, client := newTestClient(t)
	s := NewRedisSessionStore(client, nil)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "session-1", 42, time.Hour))
	require.NoError(t, s.Delete(ctx, "session-1"))
	assert.NoError(t, s.Delete(ctx, "session-1"), "deleting a missing session should succeed")

	_, err := s.Get(ctx, "session-1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
