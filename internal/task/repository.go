package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/tomasvoj/taskboard/internal/database"
)

// ErrNotFound is returned both when a task id does not exist and when it
// belongs to another user. Callers cannot tell the two apart, so a task id
// never leaks its existence across accounts.
var ErrNotFound = errors.New("task not found")

// ListFilter narrows ListByOwner results. Nil fields match everything.
type ListFilter struct {
	Status   *Status
	Priority *Priority
}

// Repository handles task persistence. Every query is scoped to an owner;
// there is deliberately no way to load a task by id alone.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new task owned by userID
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, title string, description *string, priority Priority, status Status) (*Task, error) {
	dbTask := &database.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    string(priority),
		Status:      string(status),
	}

	_, err := r.db.NewInsert().
		Model(dbTask).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// ListByOwner returns the owner's tasks, newest first, optionally narrowed
// by exact-match status and priority.
func (r *Repository) ListByOwner(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Task, error) {
	var dbTasks []*database.Task

	q := r.db.NewSelect().
		Model(&dbTasks).
		Where("user_id = ?", userID)

	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", string(*filter.Priority))
	}

	err := q.Order("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return mapDBTasksToModels(dbTasks), nil
}

// SearchByOwner returns the owner's tasks whose title or description contains
// the query, case-insensitively, newest first.
func (r *Repository) SearchByOwner(ctx context.Context, userID uuid.UUID, query string) ([]*Task, error) {
	var dbTasks []*database.Task

	pattern := "%" + query + "%"
	err := r.db.NewSelect().
		Model(&dbTasks).
		Where("user_id = ?", userID).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("title ILIKE ?", pattern).
				WhereOr("description ILIKE ?", pattern)
		}).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}

	return mapDBTasksToModels(dbTasks), nil
}

// GetByOwner fetches a single task, enforcing ownership in the same query
func (r *Repository) GetByOwner(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	dbTask := new(database.Task)
	err := r.db.NewSelect().
		Model(dbTask).
		Where("id = ?", taskID).
		Where("user_id = ?", userID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// UpdateByOwner persists new field values for the owner's task and returns
// the updated record. Last write wins on concurrent updates.
func (r *Repository) UpdateByOwner(ctx context.Context, t *Task) (*Task, error) {
	dbTask := &database.Task{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
	}

	res, err := r.db.NewUpdate().
		Model(dbTask).
		Set("title = ?", dbTask.Title).
		Set("description = ?", dbTask.Description).
		Set("priority = ?", dbTask.Priority).
		Set("status = ?", dbTask.Status).
		Set("updated_at = NOW()").
		Where("id = ?", t.ID).
		Where("user_id = ?", t.UserID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// DeleteByOwner hard-deletes the owner's task
func (r *Repository) DeleteByOwner(ctx context.Context, userID, taskID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", taskID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:          dbt.ID,
		UserID:      dbt.UserID,
		Title:       dbt.Title,
		Description: dbt.Description,
		Priority:    Priority(dbt.Priority),
		Status:      Status(dbt.Status),
		CreatedAt:   dbt.CreatedAt,
		UpdatedAt:   dbt.UpdatedAt,
	}
}

func mapDBTasksToModels(dbTasks []*database.Task) []*Task {
	tasks := make([]*Task, 0, len(dbTasks))
	for _, dbt := range dbTasks {
		tasks = append(tasks, mapDBTaskToModel(dbt))
	}
	return tasks
}
