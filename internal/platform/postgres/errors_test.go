package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/taskify-app/taskify-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{name: "email unique", err: &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailKey}, want: store.ErrEmailExists},
		{name: "other unique", err: &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "list_collaborators_pkey"}, want: store.ErrDuplicate},
		{name: "foreign key", err: &pgconn.PgError{Code: foreignKeyViolationCode}, want: store.ErrInvalidEntity},
		{name: "check", err: &pgconn.PgError{Code: checkViolationCode}, want: store.ErrInvalidEntity},
		{name: "not null", err: &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"}, want: store.ErrInvalidEntity},
		{name: "wrapped pg error", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: foreignKeyViolationCode}), want: store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), tt.err.Error())
		})
	}

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, MapError(nil))
	})

	t.Run("unmapped passes through", func(t *testing.T) {
		t.Parallel()
		err := errors.New("connection reset")
		assert.Same(t, err, MapError(err))
	})
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	fk := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: collaboratorsUserFKey}
	unique := &pgconn.PgError{Code: uniqueViolationCode}

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.Equal(t, collaboratorsUserFKey, violatedConstraint(fmt.Errorf("wrap: %w", fk)))
	assert.Equal(t, "", violatedConstraint(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrTaskNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrTaskNotFound), store.ErrTaskNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)
	assert.Error(t, CheckRowsAffected(nil, nil))

	resultErr := errors.New("driver cannot count")
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewErrorResult(resultErr), nil), resultErr)
}
