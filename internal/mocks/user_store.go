package mocks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/store"
)

// MockUserStore is an in-memory store.UserStore.
type MockUserStore struct {
	state *memoryState

	// Error injection. A non-nil field is returned by the matching method
	// before any state is touched.
	CreateErr          error
	GetByIDErr         error
	GetByEmailErr      error
	UpdateErr          error
	SetRefreshTokenErr error
}

// NewMockUserStore returns an empty standalone user store.
func NewMockUserStore() *MockUserStore {
	return NewMemoryStores().Users
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(_ context.Context, user *domain.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if user.HashedPassword == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, exists := m.state.users[user.ID]; exists {
		return store.ErrDuplicate
	}
	for _, existing := range m.state.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.state.users[user.ID] = *copyUser(*user)
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	u, ok := m.state.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.GetByEmailErr != nil {
		return nil, m.GetByEmailErr
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	for _, u := range m.state.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmails implements store.UserStore.
func (m *MockUserStore) GetByEmails(_ context.Context, emails []string) ([]*domain.User, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[e] = true
	}

	var out []*domain.User
	for _, u := range m.state.users {
		if wanted[u.Email] {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

// GetByIDForUpdate implements store.UserStore. There is no row locking in
// memory, so it behaves like GetByID.
func (m *MockUserStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByID(ctx, id)
}

// Update implements store.UserStore.
func (m *MockUserStore) Update(_ context.Context, user *domain.User) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	existing, ok := m.state.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	existing.Name = user.Name
	existing.HashedPassword = user.HashedPassword
	m.state.users[user.ID] = existing
	return nil
}

// SetRefreshToken implements store.UserStore.
func (m *MockUserStore) SetRefreshToken(_ context.Context, id uuid.UUID, token *string) error {
	if m.SetRefreshTokenErr != nil {
		return m.SetRefreshTokenErr
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	u, ok := m.state.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.RefreshToken = copyPtr(token)
	m.state.users[id] = u
	return nil
}

// Delete implements store.UserStore.
func (m *MockUserStore) Delete(_ context.Context, id uuid.UUID) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.users[id]; !ok {
		return store.ErrUserNotFound
	}
	m.state.deleteUserLocked(id)
	return nil
}

// WithTx implements store.UserStore. The in-memory store has no transactions.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

var _ store.UserStore = (*MockUserStore)(nil)
