package notify

import (
	"time"

	"github.com/google/uuid"
)

// Action tags what happened to the task the notification is about
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionCompleted Action = "completed"
)

// Job describes one notification to deliver. It lives only in the queue;
// task title and recipient are snapshotted at enqueue time so the worker
// never reads the database.
type Job struct {
	ID         uuid.UUID `json:"id"`
	TaskID     uuid.UUID `json:"task_id"`
	TaskTitle  string    `json:"task_title"`
	UserEmail  string    `json:"user_email"`
	Action     Action    `json:"action"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
