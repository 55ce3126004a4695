package store

import (
	"context"
	"database/sql"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sql.DB and *sql.Tx, allowing store code
// to work with either a database connection or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxRunner runs a function inside one database transaction. Services depend
// on it instead of *sql.DB so they can be exercised without a database.
type TxRunner interface {
	RunInTx(ctx context.Context, fn TxFn) error
}

// DBTxRunner is the TxRunner backed by a real connection pool.
type DBTxRunner struct {
	db *sql.DB
}

// NewTxRunner returns a TxRunner using db.
func NewTxRunner(db *sql.DB) *DBTxRunner {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC: constructor precondition
	}
	return &DBTxRunner{db: db}
}

// RunInTx implements TxRunner.
func (r *DBTxRunner) RunInTx(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, r.db, fn)
}

var _ TxRunner = (*DBTxRunner)(nil)
