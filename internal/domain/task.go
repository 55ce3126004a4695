package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recommended task priorities. Other values are stored as given.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is an item on a list.
type Task struct {
	ID           uuid.UUID
	ListID       uuid.UUID
	Title        string
	Description  *string
	Priority     *string
	Completed    bool
	DueDate      *time.Time
	Notification bool
	Important    bool
	File         *string
	CreatedAt    time.Time
}

// TaskUpdate is a field-level merge onto a task. Absent fields keep their
// stored value; nullable fields may be cleared with an explicit null.
type TaskUpdate struct {
	Title        Optional[string]
	Description  Optional[string]
	Priority     Optional[string]
	Completed    Optional[bool]
	DueDate      Optional[time.Time]
	Notification Optional[bool]
	Important    Optional[bool]
	File         Optional[string]
}

// NewTask builds a task on listID from fields. Title is required; the boolean
// flags default to false.
func NewTask(listID uuid.UUID, fields TaskUpdate) (*Task, error) {
	if listID == uuid.Nil {
		return nil, ErrEmptyListID
	}
	if !fields.Title.HasValue() {
		return nil, ErrEmptyTitle
	}

	task := &Task{
		ID:        uuid.New(),
		ListID:    listID,
		CreatedAt: time.Now().UTC(),
	}
	if err := fields.Apply(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Apply merges u into t.
func (u TaskUpdate) Apply(t *Task) error {
	if u.Title.Set {
		if u.Title.Null || strings.TrimSpace(u.Title.Value) == "" {
			return ErrEmptyTitle
		}
		t.Title = strings.TrimSpace(u.Title.Value)
	}

	applyNullable(u.Description, &t.Description)
	applyNullable(u.Priority, &t.Priority)
	applyNullable(u.File, &t.File)

	if u.DueDate.HasValue() {
		u.DueDate.Value = u.DueDate.Value.UTC()
	}
	applyNullable(u.DueDate, &t.DueDate)

	for _, f := range []struct {
		opt Optional[bool]
		dst *bool
	}{
		{u.Completed, &t.Completed},
		{u.Notification, &t.Notification},
		{u.Important, &t.Important},
	} {
		if err := applyRequired(f.opt, f.dst); err != nil {
			return err
		}
	}

	return t.Validate()
}

// Validate checks the task's required fields.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.ListID == uuid.Nil {
		return ErrEmptyListID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
