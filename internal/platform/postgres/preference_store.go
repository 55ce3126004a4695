package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/redact"
	"github.com/taskify-app/taskify-api/internal/store"
)

// PostgresPreferenceStore implements store.PreferenceStore.
type PostgresPreferenceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPreferenceStore creates a new PostgresPreferenceStore.
func NewPostgresPreferenceStore(db store.DBTX, logger *slog.Logger) *PostgresPreferenceStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC: constructor precondition
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPreferenceStore{
		db:     db,
		logger: logger.With(slog.String("component", "preference_store")),
	}
}

var _ store.PreferenceStore = (*PostgresPreferenceStore)(nil)

// WithTx implements store.PreferenceStore.WithTx.
func (s *PostgresPreferenceStore) WithTx(tx *sql.Tx) store.PreferenceStore {
	if tx == nil {
		return s
	}
	return &PostgresPreferenceStore{db: tx, logger: s.logger}
}

// SetFixed implements store.PreferenceStore.SetFixed
func (s *PostgresPreferenceStore) SetFixed(ctx context.Context, userID, listID uuid.UUID, fixed bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_list_preferences (user_id, list_id, fixed)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, list_id) DO UPDATE SET fixed = EXCLUDED.fixed
	`
	if _, err := s.db.ExecContext(ctx, query, userID, listID, fixed); err != nil {
		if IsForeignKeyViolation(err) {
			if violatedConstraint(err) == preferencesUserFKey {
				return fmt.Errorf("%w: preference owner", store.ErrUserNotFound)
			}
			return store.ErrListNotFound
		}
		log.Error("failed to upsert list preference",
			slog.String("error", redact.Error(err)),
			slog.String("list_id", listID.String()))
		return store.NewStoreError("list preference", "upsert", "upsert failed", MapError(err))
	}

	log.Debug("list preference set",
		slog.String("user_id", userID.String()),
		slog.String("list_id", listID.String()),
		slog.Bool("fixed", fixed))
	return nil
}

// Get implements store.PreferenceStore.Get
func (s *PostgresPreferenceStore) Get(ctx context.Context, userID, listID uuid.UUID) (*domain.ListPreference, error) {
	pref := domain.ListPreference{UserID: userID, ListID: listID}
	err := s.db.QueryRowContext(ctx,
		`SELECT fixed FROM user_list_preferences WHERE user_id = $1 AND list_id = $2`,
		userID, listID).Scan(&pref.Fixed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPreferenceNotFound
		}
		return nil, store.NewStoreError("list preference", "get", "query failed", MapError(err))
	}
	return &pref, nil
}

// Delete implements store.PreferenceStore.Delete
func (s *PostgresPreferenceStore) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_list_preferences WHERE user_id = $1 AND list_id = $2`,
		userID, listID)
	if err != nil {
		return store.NewStoreError("list preference", "delete", "delete failed", MapError(err))
	}
	return nil
}
