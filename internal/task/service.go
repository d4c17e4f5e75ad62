package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tomasvoj/taskboard/internal/notify"
	"github.com/tomasvoj/taskboard/internal/user"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title must be at most 255 characters")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrEmptyQuery      = errors.New("search query is required")
)

const maxTitleLen = 255

// Store defines the persistence operations the service needs
type Store interface {
	Create(ctx context.Context, userID uuid.UUID, title string, description *string, priority Priority, status Status) (*Task, error)
	ListByOwner(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Task, error)
	SearchByOwner(ctx context.Context, userID uuid.UUID, query string) ([]*Task, error)
	GetByOwner(ctx context.Context, userID, taskID uuid.UUID) (*Task, error)
	UpdateByOwner(ctx context.Context, t *Task) (*Task, error)
	DeleteByOwner(ctx context.Context, userID, taskID uuid.UUID) error
}

// Notifier dispatches a best-effort notification about a task event
type Notifier interface {
	Dispatch(ctx context.Context, taskID uuid.UUID, taskTitle, userEmail string, action notify.Action)
}

// CreateInput carries the fields for a new task. Zero-value Priority and
// Status fall back to medium/pending.
type CreateInput struct {
	Title       string
	Description *string
	Priority    Priority
	Status      Status
}

// UpdateInput is a partial update: unset fields keep their current value.
// Description uses OptionalString because an explicit null clears it.
type UpdateInput struct {
	Title       *string
	Description OptionalString
	Priority    *Priority
	Status      *Status
}

// Service orchestrates task operations. Every method takes the caller's
// identity and scopes all store access to it; there is no path through this
// service to another user's tasks.
type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
	}
}

// Create persists a new task for the owner and fires a best-effort "created"
// notification. The notification runs on its own goroutine with a fresh
// context so neither queue latency nor queue failure touches the response.
func (s *Service) Create(ctx context.Context, owner *user.User, in CreateInput) (*Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	// Character count, not bytes: a multi-byte title within the limit is fine
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return nil, ErrTitleTooLong
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	created, err := s.store.Create(ctx, owner.ID, in.Title, in.Description, priority, status)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	go s.notifier.Dispatch(context.Background(), created.ID, created.Title, owner.Email, notify.ActionCreated)

	return created, nil
}

// List returns the caller's tasks, newest first, optionally filtered
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	return s.store.ListByOwner(ctx, ownerID, filter)
}

// Search returns the caller's tasks matching the query, newest first. An
// empty query is a client error, not an empty result.
func (s *Service) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]*Task, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	return s.store.SearchByOwner(ctx, ownerID, query)
}

// Get returns the caller's task or ErrNotFound
func (s *Service) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error) {
	return s.store.GetByOwner(ctx, ownerID, taskID)
}

// Update applies a partial update to the caller's task: only non-nil fields
// in the input change, everything else keeps its current value.
func (s *Service) Update(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateInput) (*Task, error) {
	current, err := s.store.GetByOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, ErrTitleRequired
		}
		if utf8.RuneCountInString(*in.Title) > maxTitleLen {
			return nil, ErrTitleTooLong
		}
		current.Title = *in.Title
	}
	if in.Description.Set {
		current.Description = in.Description.Value
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		current.Priority = *in.Priority
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		current.Status = *in.Status
	}

	return s.store.UpdateByOwner(ctx, current)
}

// Delete hard-removes the caller's task
func (s *Service) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return s.store.DeleteByOwner(ctx, ownerID, taskID)
}
