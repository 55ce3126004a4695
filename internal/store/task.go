package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create inserts a task. The parent list must exist.
	// Returns ErrListNotFound if it does not.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns the task with taskID on listID.
	// Returns ErrTaskNotFound if there is none.
	GetByID(ctx context.Context, listID, taskID uuid.UUID) (*domain.Task, error)

	// ListByList returns the tasks of a list, oldest first.
	ListByList(ctx context.Context, listID uuid.UUID) ([]*domain.Task, error)

	// ListPlanned returns tasks with a due date on lists userID owns or
	// collaborates on, ordered by due date.
	ListPlanned(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListImportant returns important tasks on lists userID owns or
	// collaborates on, newest first.
	ListImportant(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update persists every mutable field of task.
	// Returns ErrTaskNotFound if it does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with taskID on listID.
	// Returns ErrTaskNotFound if there is none.
	Delete(ctx context.Context, listID, taskID uuid.UUID) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
