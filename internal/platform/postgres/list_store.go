package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/redact"
	"github.com/taskify-app/taskify-api/internal/store"
)

// listViewRow is a lists row joined with the reader's pin state.
type listViewRow struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	OwnerID   uuid.UUID `db:"owner_id"`
	Daily     bool      `db:"daily"`
	CreatedAt time.Time `db:"created_at"`
	Fixed     bool      `db:"fixed"`
}

type collaboratorRow struct {
	ListID uuid.UUID `db:"list_id"`
	UserID uuid.UUID `db:"user_id"`
	Email  string    `db:"email"`
}

// PostgresListStore implements store.ListStore. Collaborators live in the
// list_collaborators relation and are joined with users for their e-mails.
type PostgresListStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresListStore creates a new PostgresListStore.
func NewPostgresListStore(db store.DBTX, logger *slog.Logger) *PostgresListStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC: constructor precondition
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresListStore{
		db:     db,
		logger: logger.With(slog.String("component", "list_store")),
	}
}

var _ store.ListStore = (*PostgresListStore)(nil)

// WithTx implements store.ListStore.WithTx.
func (s *PostgresListStore) WithTx(tx *sql.Tx) store.ListStore {
	if tx == nil {
		return s
	}
	return &PostgresListStore{db: tx, logger: s.logger}
}

// Create implements store.ListStore.Create
func (s *PostgresListStore) Create(ctx context.Context, list *domain.List) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO lists (id, title, owner_id, daily, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, list.ID, list.Title, list.OwnerID, list.Daily, list.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner %s", store.ErrUserNotFound, list.OwnerID)
		}
		log.Error("failed to create list",
			slog.String("error", redact.Error(err)),
			slog.String("list_id", list.ID.String()))
		return store.NewStoreError("list", "create", "insert failed", MapError(err))
	}

	log.Info("list created",
		slog.String("list_id", list.ID.String()),
		slog.String("owner_id", list.OwnerID.String()))
	return nil
}

// GetByID implements store.ListStore.GetByID
func (s *PostgresListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	return s.get(ctx, id, false)
}

// GetByIDForUpdate implements store.ListStore.GetByIDForUpdate
func (s *PostgresListStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresListStore) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.List, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, title, owner_id, daily, created_at FROM lists WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var list domain.List
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&list.ID,
		&list.Title,
		&list.OwnerID,
		&list.Daily,
		&list.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("list not found", slog.String("list_id", id.String()))
			return nil, store.ErrListNotFound
		}
		log.Error("failed to get list",
			slog.String("error", redact.Error(err)),
			slog.String("list_id", id.String()))
		return nil, store.NewStoreError("list", "get", "query failed", MapError(err))
	}
	list.CreatedAt = list.CreatedAt.UTC()

	collaborators, err := s.collaborators(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	list.Collaborators = collaborators[id]

	return &list, nil
}

// collaborators loads the collaborator sets of listIDs keyed by list.
func (s *PostgresListStore) collaborators(ctx context.Context, listIDs []uuid.UUID) (map[uuid.UUID][]domain.Collaborator, error) {
	out := make(map[uuid.UUID][]domain.Collaborator, len(listIDs))
	if len(listIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT c.list_id, c.user_id, u.email
		FROM list_collaborators c
		JOIN users u ON u.id = c.user_id
		WHERE c.list_id = ANY($1::uuid[])
		ORDER BY u.email
	`
	rows, err := s.db.QueryContext(ctx, query, uuidStrings(listIDs))
	if err != nil {
		return nil, store.NewStoreError("list", "get", "collaborator query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var found []collaboratorRow
	if err := sqlx.StructScan(rows, &found); err != nil {
		return nil, store.NewStoreError("list", "get", "collaborator scan failed", err)
	}

	for _, r := range found {
		out[r.ListID] = append(out[r.ListID], domain.Collaborator{UserID: r.UserID, Email: r.Email})
	}
	return out, nil
}

// ListForUser implements store.ListStore.ListForUser
func (s *PostgresListStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.ListView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT l.id, l.title, l.owner_id, l.daily, l.created_at,
		       COALESCE(p.fixed, FALSE) AS fixed
		FROM lists l
		LEFT JOIN user_list_preferences p ON p.list_id = l.id AND p.user_id = $1
		WHERE l.owner_id = $1
		   OR EXISTS (
		       SELECT 1 FROM list_collaborators c
		       WHERE c.list_id = l.id AND c.user_id = $1
		   )
		ORDER BY fixed DESC, l.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list lists for user",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("list", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var found []listViewRow
	if err := sqlx.StructScan(rows, &found); err != nil {
		return nil, store.NewStoreError("list", "list", "scan failed", err)
	}

	ids := make([]uuid.UUID, 0, len(found))
	for _, r := range found {
		ids = append(ids, r.ID)
	}
	collaborators, err := s.collaborators(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ListView, 0, len(found))
	for _, r := range found {
		views = append(views, domain.ListView{
			List: domain.List{
				ID:            r.ID,
				Title:         r.Title,
				OwnerID:       r.OwnerID,
				Daily:         r.Daily,
				Collaborators: collaborators[r.ID],
				CreatedAt:     r.CreatedAt.UTC(),
			},
			Fixed: r.Fixed,
		})
	}

	log.Debug("lists retrieved for user",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(views)))
	return views, nil
}

// Update implements store.ListStore.Update
func (s *PostgresListStore) Update(ctx context.Context, list *domain.List) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE lists SET title = $1, daily = $2 WHERE id = $3`,
		list.Title, list.Daily, list.ID)
	if err != nil {
		log.Error("failed to update list",
			slog.String("error", redact.Error(err)),
			slog.String("list_id", list.ID.String()))
		return store.NewStoreError("list", "update", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrListNotFound); err != nil {
		return err
	}

	log.Debug("list updated", slog.String("list_id", list.ID.String()))
	return nil
}

// SetCollaborators implements store.ListStore.SetCollaborators
func (s *PostgresListStore) SetCollaborators(ctx context.Context, listID uuid.UUID, userIDs []uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM list_collaborators WHERE list_id = $1`, listID); err != nil {
		log.Error("failed to clear collaborators",
			slog.String("error", redact.Error(err)),
			slog.String("list_id", listID.String()))
		return store.NewStoreError("list", "update", "collaborator clear failed", MapError(err))
	}

	for _, userID := range userIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO list_collaborators (list_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (list_id, user_id) DO NOTHING
		`, listID, userID)
		if err != nil {
			if IsForeignKeyViolation(err) {
				if violatedConstraint(err) == collaboratorsUserFKey {
					return fmt.Errorf("%w: collaborator %s", store.ErrUserNotFound, userID)
				}
				return store.ErrListNotFound
			}
			log.Error("failed to add collaborator",
				slog.String("error", redact.Error(err)),
				slog.String("list_id", listID.String()))
			return store.NewStoreError("list", "update", "collaborator insert failed", MapError(err))
		}
	}

	log.Debug("collaborators replaced",
		slog.String("list_id", listID.String()),
		slog.Int("count", len(userIDs)))
	return nil
}

// RemoveCollaborator implements store.ListStore.RemoveCollaborator
func (s *PostgresListStore) RemoveCollaborator(ctx context.Context, listID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM list_collaborators WHERE list_id = $1 AND user_id = $2`,
		listID, userID)
	if err != nil {
		log.Error("failed to remove collaborator",
			slog.String("error", redact.Error(err)),
			slog.String("list_id", listID.String()))
		return store.NewStoreError("list", "update", "collaborator delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, fmt.Errorf("%w: collaborator", store.ErrNotFound)); err != nil {
		return err
	}

	log.Info("collaborator left list",
		slog.String("list_id", listID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// Delete implements store.ListStore.Delete
func (s *PostgresListStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete list",
			slog.String("error", redact.Error(err)),
			slog.String("list_id", id.String()))
		return store.NewStoreError("list", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrListNotFound); err != nil {
		return err
	}

	log.Info("list deleted", slog.String("list_id", id.String()))
	return nil
}

// uuidStrings renders ids for a uuid[] array parameter.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
