package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/postgres"
	"github.com/taskify-app/taskify-api/internal/store"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var userCols = []string{"id", "name", "email", "hashed_password", "refresh_token", "created_at"}

func storedUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:      time.Now().UTC(),
	}
}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		u := storedUser()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(u.ID, u.Name, u.Email, u.HashedPassword, sql.NullString{}, u.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := postgres.NewPostgresUserStore(db, nil).Create(context.Background(), u)
		assert.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err := postgres.NewPostgresUserStore(db, nil).Create(context.Background(), storedUser())
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("missing hash is rejected before the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newMock(t)
		u := storedUser()
		u.HashedPassword = ""

		err := postgres.NewPostgresUserStore(db, nil).Create(context.Background(), u)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("connection reset"))

		err := postgres.NewPostgresUserStore(db, nil).Create(context.Background(), storedUser())
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "user", storeErr.Entity)
		assert.Equal(t, "create", storeErr.Operation)
	})
}

func TestPostgresUserStore_GetByID(t *testing.T) {
	t.Parallel()

	t.Run("found without refresh token", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		u := storedUser()
		mock.ExpectQuery("SELECT .+ FROM users WHERE id = \\$1").
			WithArgs(u.ID).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(u.ID.String(), u.Name, u.Email, u.HashedPassword, nil, u.CreatedAt))

		got, err := postgres.NewPostgresUserStore(db, nil).GetByID(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, u.Email, got.Email)
		assert.Nil(t, got.RefreshToken)
	})

	t.Run("found with refresh token", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		u := storedUser()
		mock.ExpectQuery("SELECT .+ FROM users WHERE id").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(u.ID.String(), u.Name, u.Email, u.HashedPassword, "tok", u.CreatedAt))

		got, err := postgres.NewPostgresUserStore(db, nil).GetByID(context.Background(), u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RefreshToken)
		assert.Equal(t, "tok", *got.RefreshToken)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectQuery("SELECT .+ FROM users WHERE id").WillReturnRows(sqlmock.NewRows(userCols))

		_, err := postgres.NewPostgresUserStore(db, nil).GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_GetByEmailNormalizes(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT .+ FROM users WHERE email = \\$1").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := postgres.NewPostgresUserStore(db, nil).GetByEmail(context.Background(), "  ADA@example.com ")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestPostgresUserStore_SetRefreshToken(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	token := "refresh"

	t.Run("set", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE users SET refresh_token").
			WithArgs(sql.NullString{String: token, Valid: true}, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, postgres.NewPostgresUserStore(db, nil).SetRefreshToken(context.Background(), id, &token))
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE users SET refresh_token").
			WithArgs(sql.NullString{}, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, postgres.NewPostgresUserStore(db, nil).SetRefreshToken(context.Background(), id, nil))
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE users SET refresh_token").WillReturnResult(sqlmock.NewResult(0, 0))

		err := postgres.NewPostgresUserStore(db, nil).SetRefreshToken(context.Background(), id, nil)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_UpdateLeavesRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("only profile columns are written", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		u := storedUser()
		stale := "stale-refresh"
		u.RefreshToken = &stale
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET name = $1, hashed_password = $2 WHERE id = $3")).
			WithArgs(u.Name, u.HashedPassword, u.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, postgres.NewPostgresUserStore(db, nil).Update(context.Background(), u))
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE users SET name").WillReturnResult(sqlmock.NewResult(0, 0))

		err := postgres.NewPostgresUserStore(db, nil).Update(context.Background(), storedUser())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_GetByIDForUpdate(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	u := storedUser()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(u.ID).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(u.ID.String(), u.Name, u.Email, u.HashedPassword, nil, u.CreatedAt))

	got, err := postgres.NewPostgresUserStore(db, nil).GetByIDForUpdate(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestPostgresUserStore_GetByEmailsEmpty(t *testing.T) {
	t.Parallel()
	db, _ := newMock(t)

	users, err := postgres.NewPostgresUserStore(db, nil).GetByEmails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestPostgresListStore_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	list := &domain.List{ID: uuid.New(), OwnerID: uuid.New(), Title: "Groceries"}

	t.Run("update missing list", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE lists SET title").
			WithArgs(list.Title, list.Daily, list.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := postgres.NewPostgresListStore(db, nil).Update(context.Background(), list)
		assert.ErrorIs(t, err, store.ErrListNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("DELETE FROM lists WHERE id").
			WithArgs(list.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, postgres.NewPostgresListStore(db, nil).Delete(context.Background(), list.ID))
	})

	t.Run("remove non collaborator", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("DELETE FROM list_collaborators").WillReturnResult(sqlmock.NewResult(0, 0))

		err := postgres.NewPostgresListStore(db, nil).RemoveCollaborator(context.Background(), list.ID, uuid.New())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPostgresListStore_SetCollaboratorsUnknownUser(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	listID, userID := uuid.New(), uuid.New()

	mock.ExpectExec("DELETE FROM list_collaborators WHERE list_id").
		WithArgs(listID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO list_collaborators").
		WithArgs(listID, userID).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "list_collaborators_user_id_fkey"})

	err := postgres.NewPostgresListStore(db, nil).SetCollaborators(context.Background(), listID, []uuid.UUID{userID})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestPostgresListStore_ListForUserEmpty(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectQuery("FROM lists l").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "daily", "created_at", "fixed"}))

	views, err := postgres.NewPostgresListStore(db, nil).ListForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestPostgresPreferenceStore_SetFixedIsSingleUpsert(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	userID, listID := uuid.New(), uuid.New()

	upsert := regexp.QuoteMeta("ON CONFLICT (user_id, list_id) DO UPDATE SET fixed = EXCLUDED.fixed")
	mock.ExpectExec(upsert).WithArgs(userID, listID, true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).WithArgs(userID, listID, true).WillReturnResult(sqlmock.NewResult(0, 1))

	prefs := postgres.NewPostgresPreferenceStore(db, nil)
	require.NoError(t, prefs.SetFixed(context.Background(), userID, listID, true))
	require.NoError(t, prefs.SetFixed(context.Background(), userID, listID, true))
}

func TestPostgresPreferenceStore_SetFixedMissingList(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO user_list_preferences").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "user_list_preferences_list_id_fkey"})

	err := postgres.NewPostgresPreferenceStore(db, nil).SetFixed(context.Background(), uuid.New(), uuid.New(), true)
	assert.ErrorIs(t, err, store.ErrListNotFound)
}

func TestPostgresTaskStore_CreateMissingList(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO tasks").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "tasks_list_id_fkey"})

	task, err := domain.NewTask(uuid.New(), domain.TaskUpdate{Title: domain.Some("X")})
	require.NoError(t, err)

	err = postgres.NewPostgresTaskStore(db, nil).Create(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrListNotFound)
}

func TestPostgresTaskStore_ListByListScansNullableColumns(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	listID := uuid.New()
	now := time.Now().UTC()
	due := now.Add(24 * time.Hour)

	cols := []string{"id", "list_id", "title", "description", "priority", "completed",
		"due_date", "notification", "important", "file", "created_at"}
	mock.ExpectQuery("FROM tasks t WHERE t.list_id = \\$1").
		WithArgs(listID).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.New().String(), listID.String(), "X", nil, nil, false, nil, false, false, nil, now).
			AddRow(uuid.New().String(), listID.String(), "Y", "desc", "high", true, due, true, true, "a.pdf", now))

	tasks, err := postgres.NewPostgresTaskStore(db, nil).ListByList(context.Background(), listID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Nil(t, tasks[0].Description)
	assert.Nil(t, tasks[0].DueDate)
	require.NotNil(t, tasks[1].Priority)
	assert.Equal(t, "high", *tasks[1].Priority)
	require.NotNil(t, tasks[1].DueDate)
	assert.True(t, due.Equal(*tasks[1].DueDate))
	assert.True(t, tasks[1].Important)
}

func TestPostgresTaskStore_DeleteMissing(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM tasks").WillReturnResult(sqlmock.NewResult(0, 0))

	err := postgres.NewPostgresTaskStore(db, nil).Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestStoresWithNilTxReturnSelf(t *testing.T) {
	t.Parallel()
	db, _ := newMock(t)

	users := postgres.NewPostgresUserStore(db, nil)
	lists := postgres.NewPostgresListStore(db, nil)
	tasks := postgres.NewPostgresTaskStore(db, nil)
	prefs := postgres.NewPostgresPreferenceStore(db, nil)

	assert.Same(t, users, users.WithTx(nil))
	assert.Same(t, lists, lists.WithTx(nil))
	assert.Same(t, tasks, tasks.WithTx(nil))
	assert.Same(t, prefs, prefs.WithTx(nil))

	assert.Panics(t, func() { postgres.NewPostgresUserStore(nil, nil) })
}
