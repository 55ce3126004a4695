package mocks

import (
	"context"

	"github.com/taskify-app/taskify-api/internal/store"
)

// MockTxRunner implements store.TxRunner without a database. fn receives a
// nil *sql.Tx, which every store's WithTx treats as "stay on the current
// handle".
type MockTxRunner struct {
	// Err, when set, is returned instead of running fn.
	Err error

	// Calls counts RunInTx invocations.
	Calls int
}

// RunInTx implements store.TxRunner.
func (m *MockTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}

var _ store.TxRunner = (*MockTxRunner)(nil)
