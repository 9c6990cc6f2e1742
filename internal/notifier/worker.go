package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/redisstore"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// dequeueTimeout bounds each blocking pop so workers notice shutdown.
const dequeueTimeout = 5 * time.Second

// WorkerPool drains the notification queue. Each worker pops one job at a
// time, appends the notification record to the user's capped log, and sends
// an email when the job carries a destination. A failed job is re-enqueued
// with its attempt counter bumped, giving at-least-once delivery; after the
// configured number of attempts the job is dropped with an error log.
type WorkerPool struct {
	queue       *redisstore.Queue
	log         store.NotificationLog
	mailer      Mailer
	workerCount int
	maxAttempts int
	logger      *slog.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// WorkerPoolConfig holds the pool's tunables.
type WorkerPoolConfig struct {
	WorkerCount int
	MaxAttempts int
}

// NewWorkerPool creates a worker pool over the given queue and log.
func NewWorkerPool(
	queue *redisstore.Queue,
	log store.NotificationLog,
	mailer Mailer,
	cfg WorkerPoolConfig,
	logger *slog.Logger,
) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", 1)
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:       queue,
		log:         log,
		mailer:      mailer,
		workerCount: workerCount,
		maxAttempts: maxAttempts,
		logger:      logger.With(slog.String("component", "notification_worker")),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	p.logger.Info("starting notification workers", "worker_count", p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop signals the workers and waits for them to finish their current jobs.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("notification workers stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.With(slog.Int("worker_id", id))
	log.Debug("worker started")

	for {
		select {
		case <-p.ctx.Done():
			log.Debug("worker stopping")
			return
		default:
		}

		payload, err := p.queue.Dequeue(p.ctx, dequeueTimeout)
		if err != nil {
			if errors.Is(err, redisstore.ErrQueueEmpty) || p.ctx.Err() != nil {
				continue
			}
			log.Error("failed to dequeue job", "error", err)
			continue
		}

		p.process(log, payload)
	}
}

// process handles one job end to end. The record append happens before the
// email send, so a retried job after a mail failure appends again; duplicate
// log entries are the accepted cost of at-least-once delivery.
func (p *WorkerPool) process(log *slog.Logger, payload []byte) {
	job, err := DecodeJob(payload)
	if err != nil {
		// An undecodable payload can never succeed; drop it.
		log.Error("dropping undecodable job", "error", err)
		return
	}

	jobLog := log.With(
		slog.Int64("user_id", job.UserID),
		slog.Int64("task_id", job.TaskID),
		slog.String("action", job.Action),
		slog.Int("attempt", job.Attempts+1),
	)

	if err := p.handle(job); err != nil {
		jobLog.Warn("job failed", "error", err)
		p.retry(jobLog, job)
		return
	}

	jobLog.Info("notification processed")
}

func (p *WorkerPool) handle(job *Job) error {
	n, err := domain.NewNotification(job.UserID, job.TaskID, job.Action, job.Message)
	if err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.log.Append(ctx, n); err != nil {
		return err
	}

	if job.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Task %s", job.Action)
	body := job.Message
	if body == "" {
		body = fmt.Sprintf("Your task was %s.", job.Action)
	}

	if err := p.mailer.Send(ctx, job.Email, subject, body); err != nil {
		// The whole job fails so the queue's retry policy applies.
		return err
	}

	return nil
}

func (p *WorkerPool) retry(log *slog.Logger, job *Job) {
	job.Attempts++
	if job.Attempts >= p.maxAttempts {
		log.Error("dropping job after max attempts", "max_attempts", p.maxAttempts)
		return
	}

	payload, err := job.Encode()
	if err != nil {
		log.Error("failed to re-encode job for retry", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.queue.Enqueue(ctx, payload); err != nil {
		log.Error("failed to re-enqueue job", "error", err)
	}
}
