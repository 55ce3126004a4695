package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/redact"
	"github.com/taskify-app/taskify-api/internal/store"
)

// TaskService manages the tasks of a list. Task operations require an
// authenticated caller and an existing list; they do not check list roles.
type TaskService interface {
	CreateTask(ctx context.Context, listID uuid.UUID, fields domain.TaskUpdate) (*domain.Task, error)
	GetTasks(ctx context.Context, listID uuid.UUID) ([]*domain.Task, error)
	GetTask(ctx context.Context, listID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask merges u into the stored task.
	UpdateTask(ctx context.Context, listID, taskID uuid.UUID, u domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes the task and returns its title.
	DeleteTask(ctx context.Context, listID, taskID uuid.UUID) (string, error)

	// PlannedTasks returns the dated tasks across userID's lists. The caller
	// may only ask for itself.
	PlannedTasks(ctx context.Context, callerID, userID uuid.UUID) ([]*domain.Task, error)

	// ImportantTasks returns the important tasks across userID's lists. The
	// caller may only ask for itself.
	ImportantTasks(ctx context.Context, callerID, userID uuid.UUID) ([]*domain.Task, error)
}

type taskServiceImpl struct {
	lists  store.ListStore
	tasks  store.TaskStore
	tx     store.TxRunner
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(
	lists store.ListStore,
	tasks store.TaskStore,
	tx store.TxRunner,
	logger *slog.Logger,
) (TaskService, error) {
	switch {
	case lists == nil:
		return nil, errNilDependency("lists")
	case tasks == nil:
		return nil, errNilDependency("tasks")
	case tx == nil:
		return nil, errNilDependency("tx")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		lists:  lists,
		tasks:  tasks,
		tx:     tx,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	listID uuid.UUID,
	fields domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(listID, fields)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, s.wrap(log, "create", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("list_id", listID.String()))
	return task, nil
}

// GetTasks implements TaskService.
func (s *taskServiceImpl) GetTasks(ctx context.Context, listID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.lists.GetByID(ctx, listID); err != nil {
		return nil, s.wrap(log, "list", err)
	}
	tasks, err := s.tasks.ListByList(ctx, listID)
	if err != nil {
		return nil, s.wrap(log, "list", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, listID, taskID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, listID, taskID)
	if err != nil {
		return nil, s.wrap(log, "get", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	listID, taskID uuid.UUID,
	u domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.GetByID(ctx, listID, taskID)
		if err != nil {
			return err
		}
		if err := u.Apply(task); err != nil {
			return err
		}
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, s.wrap(log, "update", err)
	}

	log.Info("task updated", slog.String("task_id", taskID.String()))
	return updated, nil
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, listID, taskID uuid.UUID) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var title string
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.GetByID(ctx, listID, taskID)
		if err != nil {
			return err
		}
		title = task.Title
		return tasks.Delete(ctx, listID, taskID)
	})
	if err != nil {
		return "", s.wrap(log, "delete", err)
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	return title, nil
}

// PlannedTasks implements TaskService.
func (s *taskServiceImpl) PlannedTasks(ctx context.Context, callerID, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListPlanned(ctx, userID)
	if err != nil {
		return nil, s.wrap(log, "planned", err)
	}
	return tasks, nil
}

// ImportantTasks implements TaskService.
func (s *taskServiceImpl) ImportantTasks(ctx context.Context, callerID, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListImportant(ctx, userID)
	if err != nil {
		return nil, s.wrap(log, "important", err)
	}
	return tasks, nil
}

func (s *taskServiceImpl) wrap(log *slog.Logger, op string, err error) error {
	if isExpected(err) {
		return err
	}
	log.Error("task operation failed",
		slog.String("op", op),
		slog.String("error", redact.Error(err)))
	return NewServiceError("task", op, err)
}

// requireSelf rejects requests about another user's data.
func requireSelf(callerID, userID uuid.UUID) error {
	if callerID != userID {
		return fmt.Errorf("%w: cannot access another user's tasks", domain.ErrForbidden)
	}
	return nil
}
