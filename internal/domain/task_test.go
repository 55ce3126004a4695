package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskify-app/taskify-api/internal/domain"
)

func TestNewTaskDefaults(t *testing.T) {
	t.Parallel()

	listID := uuid.New()
	task, err := domain.NewTask(listID, domain.TaskUpdate{Title: domain.Some("X")})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, listID, task.ListID)
	assert.Equal(t, "X", task.Title)
	assert.False(t, task.Completed)
	assert.False(t, task.Notification)
	assert.False(t, task.Important)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)

	_, err = domain.NewTask(listID, domain.TaskUpdate{})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = domain.NewTask(uuid.Nil, domain.TaskUpdate{Title: domain.Some("X")})
	assert.ErrorIs(t, err, domain.ErrEmptyListID)
}

func TestTaskUpdateApply(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	base := func() *domain.Task {
		desc, prio, file := "milk and eggs", domain.PriorityHigh, "receipt.pdf"
		return &domain.Task{
			ID:           uuid.New(),
			ListID:       uuid.New(),
			Title:        "Buy groceries",
			Description:  &desc,
			Priority:     &prio,
			DueDate:      &due,
			File:         &file,
			Notification: true,
		}
	}

	t.Run("completed only keeps other fields", func(t *testing.T) {
		t.Parallel()
		task := base()
		require.NoError(t, domain.TaskUpdate{Completed: domain.Some(true)}.Apply(task))
		assert.True(t, task.Completed)
		assert.Equal(t, "Buy groceries", task.Title)
		require.NotNil(t, task.Description)
		assert.Equal(t, "milk and eggs", *task.Description)
		assert.True(t, task.Notification)
	})

	t.Run("false overrides true", func(t *testing.T) {
		t.Parallel()
		task := base()
		require.NoError(t, domain.TaskUpdate{Notification: domain.Some(false)}.Apply(task))
		assert.False(t, task.Notification)
	})

	t.Run("empty string is a value", func(t *testing.T) {
		t.Parallel()
		task := base()
		require.NoError(t, domain.TaskUpdate{Description: domain.Some("")}.Apply(task))
		require.NotNil(t, task.Description)
		assert.Equal(t, "", *task.Description)
	})

	t.Run("null clears nullable fields", func(t *testing.T) {
		t.Parallel()
		task := base()
		update := domain.TaskUpdate{
			Description: domain.Null[string](),
			Priority:    domain.Null[string](),
			DueDate:     domain.Null[time.Time](),
			File:        domain.Null[string](),
		}
		require.NoError(t, update.Apply(task))
		assert.Nil(t, task.Description)
		assert.Nil(t, task.Priority)
		assert.Nil(t, task.DueDate)
		assert.Nil(t, task.File)
	})

	t.Run("due date stored in UTC", func(t *testing.T) {
		t.Parallel()
		task := base()
		local := time.Date(2026, 4, 2, 12, 0, 0, 0, time.FixedZone("CET", 3600))
		require.NoError(t, domain.TaskUpdate{DueDate: domain.Some(local)}.Apply(task))
		require.NotNil(t, task.DueDate)
		assert.Equal(t, time.UTC, task.DueDate.Location())
		assert.True(t, local.Equal(*task.DueDate))
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, domain.TaskUpdate{Title: domain.Some("  ")}.Apply(base()), domain.ErrEmptyTitle)
		assert.ErrorIs(t, domain.TaskUpdate{Completed: domain.Null[bool]()}.Apply(base()), domain.ErrNullNotAllowed)
	})
}
