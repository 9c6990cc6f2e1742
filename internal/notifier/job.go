// Package notifier contains the notification pipeline: the fire-and-forget
// dispatch client used by the task service, the queue job format, the worker
// pool that drains the queue, and the outbound mailer.
package notifier

import "encoding/json"

// Job is the unit of work on the notification queue. Attempts counts
// deliveries so the worker can stop retrying a poison job.
type Job struct {
	UserID   int64  `json:"user_id"`
	TaskID   int64  `json:"task_id"`
	Action   string `json:"action"`
	Message  string `json:"message"`
	Email    string `json:"email,omitempty"`
	Attempts int    `json:"attempts"`
}

// Encode serializes the job for the queue.
func (j *Job) Encode() ([]byte, error) {
	return json.Marshal(j)
}

// DecodeJob parses a queued job payload.
func DecodeJob(payload []byte) (*Job, error) {
	var j Job
	if err := json.Unmarshal(payload, &j); err != nil {
		return nil, err
	}
	return &j, nil
}
