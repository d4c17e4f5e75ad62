package task

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomasvoj/taskboard/internal/notify"
)

// memStore is an in-memory Store implementing the same ownership scoping and
// ordering as the SQL repository.
type memStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*Task
	now   time.Time
	err   error // returned by every call when set
}

func newMemStore() *memStore {
	return &memStore{
		tasks: make(map[uuid.UUID]*Task),
		now:   time.Now(),
	}
}

// tick advances the fake clock so records get distinct timestamps
func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *memStore) Create(ctx context.Context, userID uuid.UUID, title string, description *string, priority Priority, status Status) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	now := s.tick()
	t := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t

	clone := *t
	return &clone, nil
}

func (s *memStore) ListByOwner(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	var out []*Task
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}

	sortNewestFirst(out)
	return out, nil
}

func (s *memStore) SearchByOwner(ctx context.Context, userID uuid.UUID, query string) ([]*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	needle := strings.ToLower(query)
	var out []*Task
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			(t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)) {
			clone := *t
			out = append(out, &clone)
		}
	}

	sortNewestFirst(out)
	return out, nil
}

func (s *memStore) GetByOwner(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	t, ok := s.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}

	clone := *t
	return &clone, nil
}

func (s *memStore) UpdateByOwner(ctx context.Context, updated *Task) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	t, ok := s.tasks[updated.ID]
	if !ok || t.UserID != updated.UserID {
		return nil, ErrNotFound
	}

	t.Title = updated.Title
	t.Description = updated.Description
	t.Priority = updated.Priority
	t.Status = updated.Status
	t.UpdatedAt = s.tick()

	clone := *t
	return &clone, nil
}

func (s *memStore) DeleteByOwner(ctx context.Context, userID, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	t, ok := s.tasks[taskID]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}

	delete(s.tasks, taskID)
	return nil
}

func sortNewestFirst(tasks []*Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// dispatchRecord captures one Dispatch call
type dispatchRecord struct {
	TaskID    uuid.UUID
	TaskTitle string
	UserEmail string
	Action    notify.Action
}

// fakeNotifier records dispatches and signals each one on a channel, so tests
// can wait for the fire-and-forget goroutine without sleeping.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []dispatchRecord
	done  chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 16)}
}

func (n *fakeNotifier) Dispatch(ctx context.Context, taskID uuid.UUID, taskTitle, userEmail string, action notify.Action) {
	n.mu.Lock()
	n.calls = append(n.calls, dispatchRecord{
		TaskID:    taskID,
		TaskTitle: taskTitle,
		UserEmail: userEmail,
		Action:    action,
	})
	n.mu.Unlock()
	n.done <- struct{}{}
}

func (n *fakeNotifier) wait(timeout time.Duration) bool {
	select {
	case <-n.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (n *fakeNotifier) recorded() []dispatchRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]dispatchRecord, len(n.calls))
	copy(out, n.calls)
	return out
}
