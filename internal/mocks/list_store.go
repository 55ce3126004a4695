package mocks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/store"
)

// MockListStore is an in-memory store.ListStore.
type MockListStore struct {
	state *memoryState

	CreateErr           error
	GetByIDErr          error
	UpdateErr           error
	SetCollaboratorsErr error
	DeleteErr           error
}

// Create implements store.ListStore.
func (m *MockListStore) Create(_ context.Context, list *domain.List) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := list.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.users[list.OwnerID]; !ok {
		return fmt.Errorf("%w: owner %s", store.ErrUserNotFound, list.OwnerID)
	}
	if _, exists := m.state.lists[list.ID]; exists {
		return store.ErrDuplicate
	}
	row := *list
	row.Collaborators = nil
	m.state.lists[list.ID] = row
	return nil
}

// GetByID implements store.ListStore.
func (m *MockListStore) GetByID(_ context.Context, id uuid.UUID) (*domain.List, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	list, ok := m.state.listLocked(id)
	if !ok {
		return nil, store.ErrListNotFound
	}
	return list, nil
}

// GetByIDForUpdate implements store.ListStore.
func (m *MockListStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	return m.GetByID(ctx, id)
}

// ListForUser implements store.ListStore.
func (m *MockListStore) ListForUser(_ context.Context, userID uuid.UUID) ([]domain.ListView, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	views := []domain.ListView{}
	for id := range m.state.lists {
		if !m.state.isMemberLocked(id, userID) {
			continue
		}
		list, _ := m.state.listLocked(id)
		views = append(views, domain.ListView{
			List:  *list,
			Fixed: m.state.preferences[prefKey{userID: userID, listID: id}],
		})
	}
	sortListViews(views)
	return views, nil
}

// Update implements store.ListStore.
func (m *MockListStore) Update(_ context.Context, list *domain.List) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if err := list.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	row, ok := m.state.lists[list.ID]
	if !ok {
		return store.ErrListNotFound
	}
	row.Title = list.Title
	row.Daily = list.Daily
	m.state.lists[list.ID] = row
	return nil
}

// SetCollaborators implements store.ListStore.
func (m *MockListStore) SetCollaborators(_ context.Context, listID uuid.UUID, userIDs []uuid.UUID) error {
	if m.SetCollaboratorsErr != nil {
		return m.SetCollaboratorsErr
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.lists[listID]; !ok {
		return store.ErrListNotFound
	}
	members := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		if _, ok := m.state.users[id]; !ok {
			return fmt.Errorf("%w: collaborator %s", store.ErrUserNotFound, id)
		}
		members[id] = true
	}
	m.state.collaborators[listID] = members
	return nil
}

// RemoveCollaborator implements store.ListStore.
func (m *MockListStore) RemoveCollaborator(_ context.Context, listID, userID uuid.UUID) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if !m.state.collaborators[listID][userID] {
		return fmt.Errorf("%w: collaborator", store.ErrNotFound)
	}
	delete(m.state.collaborators[listID], userID)
	return nil
}

// Delete implements store.ListStore.
func (m *MockListStore) Delete(_ context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.lists[id]; !ok {
		return store.ErrListNotFound
	}
	m.state.deleteListLocked(id)
	return nil
}

// WithTx implements store.ListStore.
func (m *MockListStore) WithTx(*sql.Tx) store.ListStore {
	return m
}

var _ store.ListStore = (*MockListStore)(nil)
