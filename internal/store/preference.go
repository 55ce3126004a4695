package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
)

// PreferenceStore persists per-user list pins.
type PreferenceStore interface {
	// SetFixed creates or updates the (userID, listID) row in one statement.
	SetFixed(ctx context.Context, userID, listID uuid.UUID, fixed bool) error

	// Get returns the preference row.
	// Returns ErrPreferenceNotFound if none exists.
	Get(ctx context.Context, userID, listID uuid.UUID) (*domain.ListPreference, error)

	// Delete removes the row if present. Deleting a missing row is not an error.
	Delete(ctx context.Context, userID, listID uuid.UUID) error

	// WithTx returns a PreferenceStore bound to tx.
	WithTx(tx *sql.Tx) PreferenceStore
}
