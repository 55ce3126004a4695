package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/postgres"
	"github.com/taskify-app/taskify-api/internal/store"
	"github.com/taskify-app/taskify-api/internal/testdb"
)

type txStores struct {
	users store.UserStore
	lists store.ListStore
	tasks store.TaskStore
	prefs store.PreferenceStore
}

func newTxStores(tx *sql.Tx) txStores {
	return txStores{
		users: postgres.NewPostgresUserStore(tx, nil),
		lists: postgres.NewPostgresListStore(tx, nil),
		tasks: postgres.NewPostgresTaskStore(tx, nil),
		prefs: postgres.NewPostgresPreferenceStore(tx, nil),
	}
}

func mustCreateUser(t *testing.T, s txStores, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser("User "+email, email, "password-123")
	require.NoError(t, err)
	u.HashedPassword = "$2a$10$notarealhashbutlongenough"
	u.Password = ""
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}

func mustCreateList(t *testing.T, s txStores, owner uuid.UUID, title string) *domain.List {
	t.Helper()
	l, err := domain.NewList(owner, title, false)
	require.NoError(t, err)
	require.NoError(t, s.lists.Create(context.Background(), l))
	return l
}

func TestUserStoreIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := newTxStores(tx)
		u := mustCreateUser(t, s, "ada@example.com")

		got, err := s.users.GetByEmail(ctx, " Ada@Example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		token := "refresh-token"
		require.NoError(t, s.users.SetRefreshToken(ctx, u.ID, &token))
		got, err = s.users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.HasRefreshToken(token))

		// A profile update never touches the stored session.
		got.Name = "Ada L"
		got.RefreshToken = nil
		require.NoError(t, s.users.Update(ctx, got))
		got, err = s.users.GetByIDForUpdate(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada L", got.Name)
		assert.True(t, got.HasRefreshToken(token))

		require.NoError(t, s.users.SetRefreshToken(ctx, u.ID, nil))
		got, err = s.users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got.RefreshToken)

		found, err := s.users.GetByEmails(ctx, []string{"ada@example.com", "nobody@example.com"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, u.ID, found[0].ID)

		// A failed statement aborts the transaction, so this must come last.
		dup, err := domain.NewUser("Other", "ADA@example.com", "password-123")
		require.NoError(t, err)
		dup.HashedPassword, dup.Password = "$2a$10$x", ""
		assert.ErrorIs(t, s.users.Create(ctx, dup), store.ErrEmailExists)
	})
}

func TestPreferenceUpsertIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := newTxStores(tx)
		owner := mustCreateUser(t, s, "owner@example.com")
		list := mustCreateList(t, s, owner.ID, "Groceries")

		require.NoError(t, s.prefs.SetFixed(ctx, owner.ID, list.ID, true))
		require.NoError(t, s.prefs.SetFixed(ctx, owner.ID, list.ID, true))

		var count int
		require.NoError(t, tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM user_list_preferences WHERE user_id = $1 AND list_id = $2`,
			owner.ID, list.ID).Scan(&count))
		assert.Equal(t, 1, count)

		pref, err := s.prefs.Get(ctx, owner.ID, list.ID)
		require.NoError(t, err)
		assert.True(t, pref.Fixed)

		require.NoError(t, s.prefs.SetFixed(ctx, owner.ID, list.ID, false))
		pref, err = s.prefs.Get(ctx, owner.ID, list.ID)
		require.NoError(t, err)
		assert.False(t, pref.Fixed)
	})
}

func TestListCollaborationIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := newTxStores(tx)
		a := mustCreateUser(t, s, "a@x.com")
		b := mustCreateUser(t, s, "b@x.com")
		bb := mustCreateUser(t, s, "bb@x.com")

		older := mustCreateList(t, s, a.ID, "Older")
		older.CreatedAt = time.Now().UTC().Add(-time.Hour)
		_, err := tx.ExecContext(ctx, `UPDATE lists SET created_at = $1 WHERE id = $2`, older.CreatedAt, older.ID)
		require.NoError(t, err)
		shared := mustCreateList(t, s, a.ID, "Shared")

		require.NoError(t, s.lists.SetCollaborators(ctx, shared.ID, []uuid.UUID{b.ID}))

		got, err := s.lists.GetByID(ctx, shared.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCollaborator, got.RoleOf(b.ID))
		assert.Equal(t, domain.RoleNone, got.RoleOf(bb.ID), "membership is exact, never by e-mail substring")
		assert.Equal(t, []string{"b@x.com"}, got.CollaboratorEmails())

		// b pins the shared list; it sorts first for b.
		require.NoError(t, s.prefs.SetFixed(ctx, b.ID, shared.ID, true))
		views, err := s.lists.ListForUser(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.True(t, views[0].Fixed)

		// a pins the older list; pinned first, then newest first.
		require.NoError(t, s.prefs.SetFixed(ctx, a.ID, older.ID, true))
		views, err = s.lists.ListForUser(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, older.ID, views[0].ID)
		assert.True(t, views[0].Fixed)
		assert.Equal(t, shared.ID, views[1].ID)
		assert.False(t, views[1].Fixed)

		// b leaves: list stays, collaborator row gone.
		require.NoError(t, s.lists.RemoveCollaborator(ctx, shared.ID, b.ID))
		require.NoError(t, s.prefs.Delete(ctx, b.ID, shared.ID))
		got, err = s.lists.GetByID(ctx, shared.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Collaborators)
		_, err = s.prefs.Get(ctx, b.ID, shared.ID)
		assert.ErrorIs(t, err, store.ErrPreferenceNotFound)

		views, err = s.lists.ListForUser(ctx, bb.ID)
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}

func TestListDeleteCascadesIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := newTxStores(tx)
		a := mustCreateUser(t, s, "owner@x.com")
		b := mustCreateUser(t, s, "collab@x.com")
		list := mustCreateList(t, s, a.ID, "Doomed")
		require.NoError(t, s.lists.SetCollaborators(ctx, list.ID, []uuid.UUID{b.ID}))
		require.NoError(t, s.prefs.SetFixed(ctx, b.ID, list.ID, true))

		task, err := domain.NewTask(list.ID, domain.TaskUpdate{Title: domain.Some("X")})
		require.NoError(t, err)
		require.NoError(t, s.tasks.Create(ctx, task))

		require.NoError(t, s.lists.Delete(ctx, list.ID))

		_, err = s.lists.GetByID(ctx, list.ID)
		assert.ErrorIs(t, err, store.ErrListNotFound)
		_, err = s.tasks.GetByID(ctx, list.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		_, err = s.prefs.Get(ctx, b.ID, list.ID)
		assert.ErrorIs(t, err, store.ErrPreferenceNotFound)
		assert.ErrorIs(t, s.lists.Delete(ctx, list.ID), store.ErrListNotFound)
	})
}

func TestTaskStoreIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := newTxStores(tx)
		a := mustCreateUser(t, s, "tasks@x.com")
		stranger := mustCreateUser(t, s, "stranger@x.com")
		list := mustCreateList(t, s, a.ID, "Work")

		later := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
		sooner := later.Add(-24 * time.Hour)

		t1, err := domain.NewTask(list.ID, domain.TaskUpdate{
			Title: domain.Some("Later"), DueDate: domain.Some(later), Important: domain.Some(true),
		})
		require.NoError(t, err)
		t2, err := domain.NewTask(list.ID, domain.TaskUpdate{
			Title: domain.Some("Sooner"), DueDate: domain.Some(sooner), Description: domain.Some("d"),
		})
		require.NoError(t, err)
		t3, err := domain.NewTask(list.ID, domain.TaskUpdate{Title: domain.Some("Undated")})
		require.NoError(t, err)
		for _, task := range []*domain.Task{t1, t2, t3} {
			require.NoError(t, s.tasks.Create(ctx, task))
		}

		planned, err := s.tasks.ListPlanned(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, planned, 2)
		assert.Equal(t, t2.ID, planned[0].ID)
		assert.Equal(t, t1.ID, planned[1].ID)

		important, err := s.tasks.ListImportant(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, important, 1)
		assert.Equal(t, t1.ID, important[0].ID)

		none, err := s.tasks.ListPlanned(ctx, stranger.ID)
		require.NoError(t, err)
		assert.Empty(t, none)

		got, err := s.tasks.GetByID(ctx, list.ID, t2.ID)
		require.NoError(t, err)
		require.NoError(t, domain.TaskUpdate{Completed: domain.Some(true)}.Apply(got))
		require.NoError(t, s.tasks.Update(ctx, got))

		got, err = s.tasks.GetByID(ctx, list.ID, t2.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, "Sooner", got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, "d", *got.Description)

		_, err = s.tasks.GetByID(ctx, uuid.New(), t2.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		all, err := s.tasks.ListByList(ctx, list.ID)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		require.NoError(t, s.tasks.Delete(ctx, list.ID, t3.ID))
		assert.ErrorIs(t, s.tasks.Delete(ctx, list.ID, t3.ID), store.ErrTaskNotFound)
	})
}
