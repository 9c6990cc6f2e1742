package store

import (
	"context"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// NotificationLog is the capped per-user notification history. The log never
// exceeds its configured cap; appending to a full log evicts the oldest
// entries first.
type NotificationLog interface {
	// Append pushes a notification to the front of the user's log and trims
	// the log to the cap.
	Append(ctx context.Context, n *domain.Notification) error

	// List returns the user's full log, most recent first.
	List(ctx context.Context, userID int64) ([]domain.Notification, error)

	// MarkRead flips the read flag of the entry with the given ID in place.
	// Returns ErrNotificationNotFound if the entry is not in the log.
	MarkRead(ctx context.Context, id, userID int64) error
}
