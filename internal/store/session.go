package store

import (
	"context"
	"time"
)

// SessionStore maps opaque session identifiers to user IDs with a fixed
// time-to-live. Sessions are only refreshed by re-login, never on access.
type SessionStore interface {
	// Create stores sid -> userID with the given TTL.
	Create(ctx context.Context, sid string, userID int64, ttl time.Duration) error

	// Get resolves a session identifier to a user ID.
	// Returns ErrSessionNotFound if the session is absent or expired.
	Get(ctx context.Context, sid string) (int64, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, sid string) error
}
