package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/tomasvoj/taskboard/internal/logging"
)

// Sender delivers a single notification. The worker calls it once per job.
type Sender interface {
	Send(ctx context.Context, job *Job) error
}

// EmailSender simulates delivering the notification by email. A production
// deployment would swap this for an SMTP or provider-API implementation
// behind the same interface.
type EmailSender struct {
	logger *logging.Logger
	// delay stands in for the provider round-trip
	delay time.Duration
}

func NewEmailSender(logger *logging.Logger) *EmailSender {
	return &EmailSender{logger: logger, delay: 2 * time.Second}
}

func (s *EmailSender) Send(ctx context.Context, job *Job) error {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return fmt.Errorf("notification send interrupted: %w", ctx.Err())
	}

	s.logger.Info("notification sent",
		"job_id", job.ID,
		"task_id", job.TaskID,
		"task_title", job.TaskTitle,
		"user_email", job.UserEmail,
		"action", string(job.Action),
	)

	return nil
}
