package mocks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/store"
)

// MockPreferenceStore is an in-memory store.PreferenceStore.
type MockPreferenceStore struct {
	state *memoryState

	SetFixedErr error

	// SetFixedCalls counts SetFixed invocations, successful or not.
	SetFixedCalls int
}

// SetFixed implements store.PreferenceStore.
func (m *MockPreferenceStore) SetFixed(_ context.Context, userID, listID uuid.UUID, fixed bool) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	m.SetFixedCalls++
	if m.SetFixedErr != nil {
		return m.SetFixedErr
	}
	if _, ok := m.state.users[userID]; !ok {
		return fmt.Errorf("%w: user %s", store.ErrUserNotFound, userID)
	}
	if _, ok := m.state.lists[listID]; !ok {
		return store.ErrListNotFound
	}
	m.state.preferences[prefKey{userID: userID, listID: listID}] = fixed
	return nil
}

// Get implements store.PreferenceStore.
func (m *MockPreferenceStore) Get(_ context.Context, userID, listID uuid.UUID) (*domain.ListPreference, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	fixed, ok := m.state.preferences[prefKey{userID: userID, listID: listID}]
	if !ok {
		return nil, store.ErrPreferenceNotFound
	}
	return &domain.ListPreference{UserID: userID, ListID: listID, Fixed: fixed}, nil
}

// Delete implements store.PreferenceStore.
func (m *MockPreferenceStore) Delete(_ context.Context, userID, listID uuid.UUID) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	delete(m.state.preferences, prefKey{userID: userID, listID: listID})
	return nil
}

// Count returns the number of stored preference rows.
func (m *MockPreferenceStore) Count() int {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	return len(m.state.preferences)
}

// WithTx implements store.PreferenceStore.
func (m *MockPreferenceStore) WithTx(*sql.Tx) store.PreferenceStore {
	return m
}

var _ store.PreferenceStore = (*MockPreferenceStore)(nil)
