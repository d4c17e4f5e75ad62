package notify

import (
	"context"
	"errors"
	"time"

	"github.com/tomasvoj/taskboard/internal/logging"
)

// dequeueWait bounds each BRPOP so the worker notices shutdown promptly
const dequeueWait = 5 * time.Second

// JobSource is the consuming side of the queue
type JobSource interface {
	Dequeue(ctx context.Context, wait time.Duration) (*Job, error)
}

// Worker consumes notification jobs from the queue and executes them with a
// per-job timeout. It runs as its own process (cmd/worker).
type Worker struct {
	queue      JobSource
	sender     Sender
	logger     *logging.Logger
	jobTimeout time.Duration
}

func NewWorker(queue JobSource, sender Sender, logger *logging.Logger, jobTimeout time.Duration) *Worker {
	return &Worker{
		queue:      queue,
		sender:     sender,
		logger:     logger,
		jobTimeout: jobTimeout,
	}
}

// Run processes jobs until the context is cancelled
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", "job_timeout", w.jobTimeout.String())

	for {
		if err := ctx.Err(); err != nil {
			w.logger.Info("worker stopping")
			return nil
		}

		job, err := w.queue.Dequeue(ctx, dequeueWait)
		if err != nil {
			if errors.Is(err, ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				w.logger.Info("worker stopping")
				return nil
			}
			w.logger.Error("failed to dequeue job", "error", err.Error())
			// Back off briefly so a down Redis does not spin the loop
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
			continue
		}

		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *Job) {
	start := time.Now()
	w.logger.Info("job picked up",
		"job_id", job.ID,
		"task_id", job.TaskID,
		"action", string(job.Action),
	)

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	if err := w.sender.Send(jobCtx, job); err != nil {
		w.logger.Error("job failed",
			"job_id", job.ID,
			"task_id", job.TaskID,
			"action", string(job.Action),
			"error", err.Error(),
		)
		return
	}

	w.logger.Info("job completed",
		"job_id", job.ID,
		"task_id", job.TaskID,
		"action", string(job.Action),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
