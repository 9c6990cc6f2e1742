package store

import (
	"context"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every read and write
// is scoped to an owning user; a task belonging to someone else behaves
// exactly like a task that does not exist.
type TaskStore interface {
	// Create saves a new task and fills in its generated ID and timestamps.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID, scoped to the owner.
	// Returns ErrTaskNotFound if no matching row exists.
	GetByID(ctx context.Context, id, userID int64) (*domain.Task, error)

	// ListByUser returns the user's tasks ordered by creation time descending.
	ListByUser(ctx context.Context, userID int64) ([]domain.Task, error)

	// Update overwrites all mutable fields of the task matching id+owner and
	// reports how many rows matched. A zero count is not an error here; the
	// update endpoint deliberately treats it as a silent no-op while delete
	// does not, and the distinction belongs to the handlers.
	Update(ctx context.Context, task *domain.Task) (int64, error)

	// SetStatus updates only the status of the task matching id+owner and
	// returns the updated row. Returns ErrTaskNotFound if no row matched.
	SetStatus(ctx context.Context, id, userID int64, status domain.TaskStatus) (*domain.Task, error)

	// Delete removes the task matching id+owner.
	// Returns ErrTaskNotFound if no row was affected.
	Delete(ctx context.Context, id, userID int64) error
}
