package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/notifier"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// TaskHandler handles task CRUD with a read-through cache and best-effort
// notification dispatch on creation.
type TaskHandler struct {
	tasks      store.TaskStore
	cache      store.TaskCache
	dispatcher notifier.Dispatcher
	validator  *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	tasks store.TaskStore,
	cache store.TaskCache,
	dispatcher notifier.Dispatcher,
) *TaskHandler {
	return &TaskHandler{
		tasks:      tasks,
		cache:      cache,
		dispatcher: dispatcher,
		validator:  validator.New(),
	}
}

// List handles GET /api/tasks. Cache hits are served as-is; misses fall
// through to the store and repopulate the cache.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	tasks, err := h.cache.Get(r.Context(), userID)
	if err == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, tasks)
		return
	}
	if !errors.Is(err, store.ErrCacheMiss) {
		// A broken cache degrades to store reads, it does not fail the request.
		log.Warn("task cache read failed, serving from store", "error", err)
	}

	tasks, err = h.tasks.ListByUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	if err := h.cache.Set(r.Context(), userID, tasks); err != nil {
		log.Warn("failed to populate task cache", "error", err, "user_id", userID)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Create handles POST /api/tasks. The notification dispatch is detached:
// the response does not wait on it and its failure is invisible to the client.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := domain.NewTask(userID, req.Title, req.Description, domain.TaskPriority(req.Priority), req.DueDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.tasks.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	h.invalidate(r, userID)

	go h.dispatcher.Dispatch(notifier.Job{
		UserID:  userID,
		TaskID:  task.ID,
		Action:  "created",
		Message: fmt.Sprintf("Your task %q was created.", task.Title),
		Email:   shared.UserEmailFromContext(r.Context()),
	})

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		ID:      task.ID,
		Message: "Task created successfully",
	})
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(r.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load task", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}. A zero-row match still reports
// success: this mirrors the original service, where update is a silent no-op
// on an unknown ID while delete returns 404.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task := &domain.Task{
		ID:          taskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	}

	if _, err := h.tasks.Update(r.Context(), task); err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) || errors.Is(err, domain.ErrInvalidPriority) ||
			errors.Is(err, domain.ErrEmptyTitle) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update task", err)
		return
	}

	h.invalidate(r, userID)

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Task updated successfully"})
}

// Done handles PATCH /api/tasks/{id}/done.
func (h *TaskHandler) Done(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.TaskStatusCompleted)
}

// Reactivate handles PATCH /api/tasks/{id}/reactivate.
func (h *TaskHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.TaskStatusPending)
}

func (h *TaskHandler) setStatus(w http.ResponseWriter, r *http.Request, status domain.TaskStatus) {
	userID, taskID, ok := h.requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.SetStatus(r.Context(), taskID, userID, status)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update task", err)
		return
	}

	h.invalidate(r, userID)

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}. Unlike update, an unknown ID here
// is a 404.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), taskID, userID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}

	h.invalidate(r, userID)

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// invalidate drops the user's cache entry after any write. Failures are
// logged and swallowed: a stale entry expires on its TTL anyway.
func (h *TaskHandler) invalidate(r *http.Request, userID int64) {
	if err := h.cache.Invalidate(r.Context(), userID); err != nil {
		logger.FromContext(r.Context()).
			Warn("failed to invalidate task cache", "error", err, "user_id", userID)
	}
}

func (h *TaskHandler) requireUserAndTaskID(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return 0, 0, false
	}

	raw := chi.URLParam(r, "id")
	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || taskID <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return 0, 0, false
	}

	return userID, taskID, true
}
