package redisstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/store"
)

func TestNotificationLogAppendAndList(t *testing.T) {
	_, client := newTestClient(t)
	l := NewRedisNotificationLog(client, 100, nil)
	ctx := context.Background()

	first := &domain.Notification{ID: 1, UserID: 1, TaskID: 10, Action: "created", Message: "one"}
	second := &domain.Notification{ID: 2, UserID: 1, TaskID: 11, Action: "completed", Message: "two"}

	require.NoError(t, l.Append(ctx, first))
	require.NoError(t, l.Append(ctx, second))

	got, err := l.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Most recent first.
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.False(t, got[0].Read)
}

func TestNotificationLogListEmpty(t *testing.T) {
	_, client := newTestClient(t)
	l := NewRedisNotificationLog(client, 100, nil)

	got, err := l.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNotificationLogCapEvictsOldest(t *testing.T) {
	_, client := newTestClient(t)
	l := NewRedisNotificationLog(client, 5, nil)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		n := &domain.Notification{
			ID:      int64(i),
			UserID:  1,
			Action:  "created",
			Message: fmt.Sprintf("entry %d", i),
		}
		require.NoError(t, l.Append(ctx, n))
	}

	got, err := l.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 5, "log should be trimmed to its cap")

	// The two oldest entries were evicted.
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, int64(3), got[4].ID)
}

func TestNotificationLogMarkRead(t *testing.T) {
	_, client := newTestClient(t)
	l := NewRedisNotificationLog(client, 100, nil)
	ctx := context.Background()

	require.NoError(t, l.Append(ctx, &domain.Notification{ID: 1, UserID: 1, Action: "created"}))
	require.NoError(t, l.Append(ctx, &domain.Notification{ID: 2, UserID: 1, Action: "completed"}))

	require.NoError(t, l.MarkRead(ctx, 1, 1))

	got, err := l.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Only the targeted entry flips; order is untouched.
	assert.Equal(t, int64(2), got[0].ID)
	assert.False(t, got[0].Read)
	assert.Equal(t, int64(1), got[1].ID)
	assert.True(t, got[1].Read)

	// Marking an already-read entry is a no-op.
	assert.NoError(t, l.MarkRead(ctx, 1, 1))
}

func TestNotificationLogMarkReadUnknownID(t *testing.T) {
	_, client := newTestClient(t)
	l := NewRedisNotificationLog(client, 100, nil)
	ctx := context.Background()

	require.NoError(t, l.Append(ctx, &domain.Notification{ID: 1, UserID: 1, Action: "created"}))

	err := l.MarkRead(ctx, 99, 1)
	assert.ErrorIs(t, err, store.ErrNotificationNotFound)
}

func TestNotificationLogMarkReadScopedToUser(t *testing.T) {
	_, client := newTestClient(t)
	l := NewRedisNotificationLog(client, 100, nil)
	ctx := context.Background()

	require.NoError(t, l.Append(ctx, &domain.Notification{ID: 1, UserID: 1, Action: "created"}))

	// Another user cannot mark entries in someone else's log.
	err := l.MarkRead(ctx, 1, 2)
	assert.ErrorIs(t, err, store.ErrNotificationNotFound)
}
