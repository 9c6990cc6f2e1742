package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	due := time.Now().UTC().Add(24 * time.Hour)

	task, err := NewTask(1, "Write report", "quarterly numbers", TaskPriorityHigh, &due)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Status != TaskStatusPending {
		t.Errorf("Expected new task to be pending, got %s", task.Status)
	}
	if task.Priority != TaskPriorityHigh {
		t.Errorf("Expected priority high, got %s", task.Priority)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	// Empty priority falls back to medium.
	task, err = NewTask(1, "Write report", "", "", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Priority != TaskPriorityMedium {
		t.Errorf("Expected default priority medium, got %s", task.Priority)
	}

	cases := []struct {
		name     string
		userID   int64
		title    string
		priority TaskPriority
		wantErr  error
	}{
		{"missing owner", 0, "Write report", TaskPriorityLow, ErrMissingOwner},
		{"empty title", 1, "", TaskPriorityLow, ErrEmptyTitle},
		{"unknown priority", 1, "Write report", "urgent", ErrInvalidPriority},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTask(tc.userID, tc.title, "", tc.priority, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTaskValidateStatus(t *testing.T) {
	task, err := NewTask(1, "Write report", "", TaskPriorityLow, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	task.Status = "archived"
	if err := task.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected error %v, got %v", ErrInvalidStatus, err)
	}
}

func TestStatusAndPriorityValid(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted} {
		if !s.Valid() {
			t.Errorf("Expected status %s to be valid", s)
		}
	}
	if TaskStatus("done").Valid() {
		t.Error("Expected unknown status to be invalid")
	}

	for _, p := range []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh} {
		if !p.Valid() {
			t.Errorf("Expected priority %s to be valid", p)
		}
	}
	if TaskPriority("urgent").Valid() {
		t.Error("Expected unknown priority to be invalid")
	}
}

func TestNewNotification(t *testing.T) {
	n, err := NewNotification(1, 42, "created", "Task created")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if n.Read {
		t.Error("Expected new notification to be unread")
	}
	if n.ID != n.CreatedAt.UnixMilli() {
		t.Errorf("Expected ID derived from creation time, got %d", n.ID)
	}

	if _, err := NewNotification(1, 42, "", "msg"); !errors.Is(err, ErrEmptyAction) {
		t.Errorf("Expected error %v, got %v", ErrEmptyAction, err)
	}
}
