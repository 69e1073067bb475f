package mocks

import (
	"context"

	"github.com/phrazzld/splitledger/internal/store"
)

// MockTxRunner implements store.TxRunner without a database. The
// in-memory stores ignore the transaction handle, so the runner simply
// invokes the function with a nil transaction. There is no rollback:
// tests that exercise failure paths assert on observable state instead.
type MockTxRunner struct {
	RunInTxFn     func(ctx context.Context, fn store.TxFn) error
	RunInReadTxFn func(ctx context.Context, fn store.TxFn) error

	// BeginErr, when set, is returned before fn runs.
	BeginErr error
}

var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTx implements the store.TxRunner interface
func (m *MockTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}
	if m.BeginErr != nil {
		return m.BeginErr
	}
	return fn(ctx, nil)
}

// RunInReadTx implements the store.TxRunner interface
func (m *MockTxRunner) RunInReadTx(ctx context.Context, fn store.TxFn) error {
	if m.RunInReadTxFn != nil {
		return m.RunInReadTxFn(ctx, fn)
	}
	if m.BeginErr != nil {
		return m.BeginErr
	}
	return fn(ctx, nil)
}
