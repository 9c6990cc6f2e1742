package domain

import (
	"errors"
	"time"
)

// ErrEmptyAction is returned when a notification carries no action label.
var ErrEmptyAction = errors.New("notification action cannot be empty")

// Notification is a single entry in a user's notification log. IDs are derived
// from the wall clock at creation time (unix milliseconds), which keeps them
// roughly monotonic without coordinating with the store.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TaskID    int64     `json:"task_id"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification builds an unread notification record for the given user.
func NewNotification(userID, taskID int64, action, message string) (*Notification, error) {
	if action == "" {
		return nil, ErrEmptyAction
	}

	now := time.Now().UTC()
	return &Notification{
		ID:        now.UnixMilli(),
		UserID:    userID,
		TaskID:    taskID,
		Action:    action,
		Message:   message,
		Read:      false,
		CreatedAt: now,
	}, nil
}
