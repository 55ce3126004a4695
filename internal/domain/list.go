package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Collaborator is a user a list has been shared with.
type Collaborator struct {
	UserID uuid.UUID
	Email  string
}

// List is a titled collection of tasks owned by exactly one user and shared
// with any number of collaborators.
type List struct {
	ID            uuid.UUID
	Title         string
	OwnerID       uuid.UUID
	Daily         bool
	Collaborators []Collaborator
	CreatedAt     time.Time
}

// ListView is a list as seen by one user, carrying that user's pin state.
type ListView struct {
	List
	Fixed bool
}

// NewList creates a list owned by ownerID.
func NewList(ownerID uuid.UUID, title string, daily bool) (*List, error) {
	list := &List{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		OwnerID:   ownerID,
		Daily:     daily,
		CreatedAt: time.Now().UTC(),
	}

	if err := list.Validate(); err != nil {
		return nil, err
	}
	return list, nil
}

// Validate checks the list's required fields.
func (l *List) Validate() error {
	if l.ID == uuid.Nil {
		return ErrInvalidID
	}
	if l.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(l.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// RoleOf classifies userID against the list.
func (l *List) RoleOf(userID uuid.UUID) Role {
	if userID == uuid.Nil {
		return RoleNone
	}
	if l.OwnerID == userID {
		return RoleOwner
	}
	for _, c := range l.Collaborators {
		if c.UserID == userID {
			return RoleCollaborator
		}
	}
	return RoleNone
}

// CollaboratorEmails returns the collaborators' addresses in sorted order.
func (l *List) CollaboratorEmails() []string {
	emails := make([]string, 0, len(l.Collaborators))
	for _, c := range l.Collaborators {
		emails = append(emails, c.Email)
	}
	sort.Strings(emails)
	return emails
}

// CollaboratorIDs returns the collaborators' user IDs.
func (l *List) CollaboratorIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(l.Collaborators))
	for _, c := range l.Collaborators {
		ids = append(ids, c.UserID)
	}
	return ids
}

// ListUpdate is a partial update of a list. Title, Daily and Collaborators
// are content fields reserved to the owner; Fixed is the caller's own pin.
type ListUpdate struct {
	Title         Optional[string]
	Daily         Optional[bool]
	Collaborators Optional[EmailList]
	Fixed         Optional[bool]
}

// HasContentChanges reports whether the update touches any owner-only field.
func (u ListUpdate) HasContentChanges() bool {
	return u.Title.Set || u.Daily.Set || u.Collaborators.Set
}

// ApplyContent merges the title and daily flag into l. Collaborators are
// resolved against the user store by the caller.
func (u ListUpdate) ApplyContent(l *List) error {
	if u.Title.Set {
		if u.Title.Null || strings.TrimSpace(u.Title.Value) == "" {
			return ErrEmptyTitle
		}
		l.Title = strings.TrimSpace(u.Title.Value)
	}
	if err := applyRequired(u.Daily, &l.Daily); err != nil {
		return err
	}
	return nil
}
