package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Dispatcher is the task service's view of the notification pipeline.
type Dispatcher interface {
	// Dispatch delivers a notification job without reporting the outcome to
	// the caller's request path. Implementations log failures and move on.
	Dispatch(job Job)
}

// Client posts notification jobs to the notification service. Delivery is
// best-effort and detached: the task creation response never waits on it,
// and a failure is logged, not retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure Client implements Dispatcher.
var _ Dispatcher = (*Client)(nil)

// NewClient creates a notification client with a fixed request timeout.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.With(slog.String("component", "notifier_client")),
	}
}

// Dispatch implements Dispatcher. It runs in the calling goroutine; callers
// wanting fire-and-forget semantics invoke it with `go`. The request carries
// its own timeout context, detached from the originating request.
func (c *Client) Dispatch(job Job) {
	body, err := json.Marshal(job)
	if err != nil {
		c.logger.Error("failed to encode notification job", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/send",
		bytes.NewReader(body),
	)
	if err != nil {
		c.logger.Error("failed to build notification request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("notification dispatch failed",
			"error", err,
			"user_id", job.UserID,
			"task_id", job.TaskID)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("notification service rejected job",
			"status", resp.StatusCode,
			"user_id", job.UserID,
			"task_id", job.TaskID)
		return
	}

	c.logger.Debug("notification dispatched",
		"user_id", job.UserID,
		"task_id", job.TaskID,
		"action", job.Action)
}
