package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/tomasvoj/taskboard/internal/logging"
)

// JobQueue is the queue surface the dispatcher needs
type JobQueue interface {
	Enqueue(ctx context.Context, job Job) (uuid.UUID, error)
}

// Dispatcher hands notification jobs to the queue on a best-effort basis.
// Enqueue failures are logged and swallowed: the task write that triggered
// the notification has already committed, and a queue outage must never turn
// a successful request into a failed one.
type Dispatcher struct {
	queue  JobQueue
	logger *logging.Logger
}

func NewDispatcher(queue JobQueue, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{queue: queue, logger: logger}
}

// Dispatch enqueues a notification without propagating failure. Runs on the
// caller's goroutine; the queue round-trip is the only latency added.
func (d *Dispatcher) Dispatch(ctx context.Context, taskID uuid.UUID, taskTitle, userEmail string, action Action) {
	jobID, err := d.queue.Enqueue(ctx, Job{
		TaskID:    taskID,
		TaskTitle: taskTitle,
		UserEmail: userEmail,
		Action:    action,
	})
	if err != nil {
		d.logger.Warn("failed to enqueue notification",
			"task_id", taskID,
			"action", string(action),
			"error", err.Error(),
		)
		return
	}

	d.logger.Info("notification job enqueued",
		"job_id", jobID,
		"task_id", taskID,
		"action", string(action),
	)
}
