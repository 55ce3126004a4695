package mocks

import (
	"sync"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
)

// memoryState is the shared backing data of the in-memory stores. Rows are
// stored by value and copied on the way in and out so callers cannot mutate
// stored state without going through a store method.
type memoryState struct {
	mu            sync.Mutex
	users         map[uuid.UUID]domain.User
	lists         map[uuid.UUID]domain.List
	collaborators map[uuid.UUID]map[uuid.UUID]bool // list -> users
	tasks         map[uuid.UUID]domain.Task
	preferences   map[prefKey]bool
}

type prefKey struct {
	userID uuid.UUID
	listID uuid.UUID
}

// MemoryStores bundles in-memory implementations of every store interface
// over one shared dataset.
type MemoryStores struct {
	Users       *MockUserStore
	Lists       *MockListStore
	Tasks       *MockTaskStore
	Preferences *MockPreferenceStore
}

// NewMemoryStores returns empty in-memory stores that see each other's rows.
func NewMemoryStores() *MemoryStores {
	state := &memoryState{
		users:         make(map[uuid.UUID]domain.User),
		lists:         make(map[uuid.UUID]domain.List),
		collaborators: make(map[uuid.UUID]map[uuid.UUID]bool),
		tasks:         make(map[uuid.UUID]domain.Task),
		preferences:   make(map[prefKey]bool),
	}
	return &MemoryStores{
		Users:       &MockUserStore{state: state},
		Lists:       &MockListStore{state: state},
		Tasks:       &MockTaskStore{state: state},
		Preferences: &MockPreferenceStore{state: state},
	}
}

// deleteListLocked removes a list and everything hanging off it.
func (s *memoryState) deleteListLocked(listID uuid.UUID) {
	delete(s.lists, listID)
	delete(s.collaborators, listID)
	for id, t := range s.tasks {
		if t.ListID == listID {
			delete(s.tasks, id)
		}
	}
	for k := range s.preferences {
		if k.listID == listID {
			delete(s.preferences, k)
		}
	}
}

// deleteUserLocked mirrors the ON DELETE CASCADE chain of the users table.
func (s *memoryState) deleteUserLocked(userID uuid.UUID) {
	delete(s.users, userID)
	for id, l := range s.lists {
		if l.OwnerID == userID {
			s.deleteListLocked(id)
		}
	}
	for _, members := range s.collaborators {
		delete(members, userID)
	}
	for k := range s.preferences {
		if k.userID == userID {
			delete(s.preferences, k)
		}
	}
}

func (s *memoryState) isMemberLocked(listID, userID uuid.UUID) bool {
	l, ok := s.lists[listID]
	if !ok {
		return false
	}
	return l.OwnerID == userID || s.collaborators[listID][userID]
}

// listLocked assembles a list with its collaborators sorted by email.
func (s *memoryState) listLocked(id uuid.UUID) (*domain.List, bool) {
	l, ok := s.lists[id]
	if !ok {
		return nil, false
	}
	out := l
	out.Collaborators = nil
	for userID := range s.collaborators[id] {
		if u, ok := s.users[userID]; ok {
			out.Collaborators = append(out.Collaborators, domain.Collaborator{UserID: u.ID, Email: u.Email})
		}
	}
	sortCollaborators(out.Collaborators)
	return &out, true
}

func copyUser(u domain.User) *domain.User {
	out := u
	out.Password = ""
	if u.RefreshToken != nil {
		token := *u.RefreshToken
		out.RefreshToken = &token
	}
	return &out
}

func copyTask(t domain.Task) *domain.Task {
	out := t
	out.Description = copyPtr(t.Description)
	out.Priority = copyPtr(t.Priority)
	out.File = copyPtr(t.File)
	out.DueDate = copyPtr(t.DueDate)
	return &out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
