package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
)

// ListStore defines the interface for list and collaborator persistence.
type ListStore interface {
	// Create inserts the list row. Collaborators are written with SetCollaborators.
	Create(ctx context.Context, list *domain.List) error

	// GetByID returns the list with its collaborators.
	// Returns ErrListNotFound if the list does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error)

	// GetByIDForUpdate is GetByID that also locks the list row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.List, error)

	// ListForUser returns the lists userID owns or collaborates on, annotated
	// with the user's own pin, ordered pinned first then newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.ListView, error)

	// Update persists title and daily flag.
	// Returns ErrListNotFound if the list does not exist.
	Update(ctx context.Context, list *domain.List) error

	// SetCollaborators replaces the whole collaborator set of a list.
	SetCollaborators(ctx context.Context, listID uuid.UUID, userIDs []uuid.UUID) error

	// RemoveCollaborator removes one user from the collaborator set.
	// Returns ErrNotFound if the user was not a collaborator.
	RemoveCollaborator(ctx context.Context, listID, userID uuid.UUID) error

	// Delete removes a list; tasks, collaborators and preferences cascade.
	// Returns ErrListNotFound if the list does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a ListStore bound to tx.
	WithTx(tx *sql.Tx) ListStore
}
