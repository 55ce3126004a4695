package mocks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore.
type MockTaskStore struct {
	state *memoryState

	CreateErr error
	UpdateErr error
	DeleteErr error
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(_ context.Context, task *domain.Task) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.lists[task.ListID]; !ok {
		return store.ErrListNotFound
	}
	if _, exists := m.state.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	m.state.tasks[task.ID] = *copyTask(*task)
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(_ context.Context, listID, taskID uuid.UUID) (*domain.Task, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	t, ok := m.state.tasks[taskID]
	if !ok || t.ListID != listID {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(t), nil
}

// ListByList implements store.TaskStore.
func (m *MockTaskStore) ListByList(_ context.Context, listID uuid.UUID) ([]*domain.Task, error) {
	tasks := m.filter(func(t domain.Task) bool { return t.ListID == listID })
	sortTasks(tasks, func(a, b *domain.Task) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return tasks, nil
}

// ListPlanned implements store.TaskStore.
func (m *MockTaskStore) ListPlanned(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks := m.filter(func(t domain.Task) bool {
		return t.DueDate != nil && m.state.isMemberLocked(t.ListID, userID)
	})
	sortTasks(tasks, func(a, b *domain.Task) bool {
		if !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return tasks, nil
}

// ListImportant implements store.TaskStore.
func (m *MockTaskStore) ListImportant(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks := m.filter(func(t domain.Task) bool {
		return t.Important && m.state.isMemberLocked(t.ListID, userID)
	})
	sortTasks(tasks, func(a, b *domain.Task) bool { return a.CreatedAt.After(b.CreatedAt) })
	return tasks, nil
}

// filter returns copies of the tasks matching keep. keep runs under the lock.
func (m *MockTaskStore) filter(keep func(domain.Task) bool) []*domain.Task {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	out := []*domain.Task{}
	for _, t := range m.state.tasks {
		if keep(t) {
			out = append(out, copyTask(t))
		}
	}
	return out
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(_ context.Context, task *domain.Task) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	existing, ok := m.state.tasks[task.ID]
	if !ok || existing.ListID != task.ListID {
		return store.ErrTaskNotFound
	}
	row := *copyTask(*task)
	row.CreatedAt = existing.CreatedAt
	m.state.tasks[task.ID] = row
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(_ context.Context, listID, taskID uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	t, ok := m.state.tasks[taskID]
	if !ok || t.ListID != listID {
		return store.ErrTaskNotFound
	}
	delete(m.state.tasks, taskID)
	return nil
}

// WithTx implements store.TaskStore.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

var _ store.TaskStore = (*MockTaskStore)(nil)
