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

const taskColumns = `t.id, t.list_id, t.title, t.description, t.priority, t.completed,
	t.due_date, t.notification, t.important, t.file, t.created_at`

// memberOf restricts a query over lists l to those user $1 owns or collaborates on.
const memberOf = `(l.owner_id = $1 OR EXISTS (
	SELECT 1 FROM list_collaborators c WHERE c.list_id = l.id AND c.user_id = $1))`

type taskRow struct {
	ID           uuid.UUID  `db:"id"`
	ListID       uuid.UUID  `db:"list_id"`
	Title        string     `db:"title"`
	Description  *string    `db:"description"`
	Priority     *string    `db:"priority"`
	Completed    bool       `db:"completed"`
	DueDate      *time.Time `db:"due_date"`
	Notification bool       `db:"notification"`
	Important    bool       `db:"important"`
	File         *string    `db:"file"`
	CreatedAt    time.Time  `db:"created_at"`
}

func (r taskRow) toDomain() *domain.Task {
	t := &domain.Task{
		ID:           r.ID,
		ListID:       r.ListID,
		Title:        r.Title,
		Description:  r.Description,
		Priority:     r.Priority,
		Completed:    r.Completed,
		Notification: r.Notification,
		Important:    r.Important,
		File:         r.File,
		CreatedAt:    r.CreatedAt.UTC(),
	}
	if r.DueDate != nil {
		due := r.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

// PostgresTaskStore implements store.TaskStore.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC: constructor precondition
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	if tx == nil {
		return s
	}
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, list_id, title, description, priority, completed,
		                   due_date, notification, important, file, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.ListID,
		task.Title,
		task.Description,
		task.Priority,
		task.Completed,
		task.DueDate,
		task.Notification,
		task.Important,
		task.File,
		task.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("task references missing list", slog.String("list_id", task.ListID.String()))
			return store.ErrListNotFound
		}
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("list_id", task.ListID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, listID, taskID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1 AND t.list_id = $2`

	var r taskRow
	err := s.db.QueryRowContext(ctx, query, taskID, listID).Scan(
		&r.ID,
		&r.ListID,
		&r.Title,
		&r.Description,
		&r.Priority,
		&r.Completed,
		&r.DueDate,
		&r.Notification,
		&r.Important,
		&r.File,
		&r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", taskID.String()))
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}
	return r.toDomain(), nil
}

// ListByList implements store.TaskStore.ListByList
func (s *PostgresTaskStore) ListByList(ctx context.Context, listID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.list_id = $1 ORDER BY t.created_at, t.id`
	return s.query(ctx, "list_by_list", query, listID)
}

// ListPlanned implements store.TaskStore.ListPlanned
func (s *PostgresTaskStore) ListPlanned(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks t
		JOIN lists l ON l.id = t.list_id
		WHERE t.due_date IS NOT NULL AND ` + memberOf + `
		ORDER BY t.due_date, t.created_at`
	return s.query(ctx, "list_planned", query, userID)
}

// ListImportant implements store.TaskStore.ListImportant
func (s *PostgresTaskStore) ListImportant(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks t
		JOIN lists l ON l.id = t.list_id
		WHERE t.important AND ` + memberOf + `
		ORDER BY t.created_at DESC`
	return s.query(ctx, "list_important", query, userID)
}

func (s *PostgresTaskStore) query(ctx context.Context, op, query string, arg uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("task", op, "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var found []taskRow
	if err := sqlx.StructScan(rows, &found); err != nil {
		return nil, store.NewStoreError("task", op, "scan failed", err)
	}

	tasks := make([]*domain.Task, 0, len(found))
	for _, r := range found {
		tasks = append(tasks, r.toDomain())
	}

	log.Debug("tasks retrieved", slog.String("operation", op), slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, completed = $4,
		    due_date = $5, notification = $6, important = $7, file = $8
		WHERE id = $9 AND list_id = $10
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Priority,
		task.Completed,
		task.DueDate,
		task.Notification,
		task.Important,
		task.File,
		task.ID,
		task.ListID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "update", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, listID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND list_id = $2`, taskID, listID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", taskID.String()))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	return nil
}
