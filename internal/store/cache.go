package store

import (
	"context"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// TaskCache is a read-through cache of per-user task lists. Entries expire on
// a fixed TTL owned by the implementation and are invalidated synchronously on
// every write for that user. Invalidation always deletes the whole entry;
// there is no partial update.
type TaskCache interface {
	// Get returns the cached task list for the user.
	// Returns ErrCacheMiss when no entry is present.
	Get(ctx context.Context, userID int64) ([]domain.Task, error)

	// Set stores the task list for the user with the cache's fixed TTL.
	Set(ctx context.Context, userID int64, tasks []domain.Task) error

	// Invalidate deletes the user's cache entry. Absence is not an error.
	Invalidate(ctx context.Context, userID int64) error
}
