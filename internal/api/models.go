package api

import (
	"time"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// Common request/response structures.

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse defines the successful login payload. The session rides in
// the sid cookie; the access token serves the gateway's bearer variant.
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=500"`
	Description string     `json:"description" validate:"max=5000"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest defines the payload for the full task update endpoint.
type UpdateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=500"`
	Description string     `json:"description" validate:"max=5000"`
	Status      string     `json:"status"      validate:"required,oneof=pending in_progress completed"`
	Priority    string     `json:"priority"    validate:"required,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateTaskResponse acknowledges task creation with the new ID.
type CreateTaskResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// NotifyRequest defines the payload accepted by the notification service's
// enqueue endpoint.
type NotifyRequest struct {
	UserID  int64  `json:"user_id" validate:"required,gt=0"`
	TaskID  int64  `json:"task_id" validate:"required,gt=0"`
	Action  string `json:"action"  validate:"required,max=64"`
	Message string `json:"message" validate:"max=2000"`
	Email   string `json:"email"   validate:"omitempty,email"`
}

// MarkReadRequest defines the payload for flipping a notification's read flag.
type MarkReadRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}
