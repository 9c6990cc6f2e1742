package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/notifier"
	"github.com/phrazzld/taskhub-api/internal/platform/redisstore"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// NotificationHandler exposes the notification service's HTTP surface: the
// enqueue endpoint, the per-user history, and the read-flag toggle. Actual
// processing happens in the worker pool, not here.
type NotificationHandler struct {
	queue     *redisstore.Queue
	log       store.NotificationLog
	validator *validator.Validate
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(queue *redisstore.Queue, log store.NotificationLog) *NotificationHandler {
	return &NotificationHandler{
		queue:     queue,
		log:       log,
		validator: validator.New(),
	}
}

// Send handles POST /api/send. The job is queued and the request returns
// immediately; delivery happens asynchronously.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	job := notifier.Job{
		UserID:  req.UserID,
		TaskID:  req.TaskID,
		Action:  req.Action,
		Message: req.Message,
		Email:   req.Email,
	}
	payload, err := job.Encode()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to enqueue notification", err)
		return
	}

	if err := h.queue.Enqueue(r.Context(), payload); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to enqueue notification", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, MessageResponse{Message: "Notification queued"})
}

// History handles GET /api/notifications/{userId}.
func (h *NotificationHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	notifications, err := h.log.List(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load notifications", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// MarkRead handles PUT /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid notification id")
		return
	}

	var req MarkReadRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.log.MarkRead(r.Context(), id, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotificationNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Notification not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update notification", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Notification marked as read"})
}
