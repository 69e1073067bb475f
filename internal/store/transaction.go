package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/splitledger/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction. The
// transaction is committed if the function returns nil and rolled back
// otherwise.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxRunner begins transactions for multi-store operations. The service
// layer depends on this interface rather than on *sql.DB directly so
// tests can supply an in-memory runner.
type TxRunner interface {
	// RunInTx executes fn within a read-write transaction.
	RunInTx(ctx context.Context, fn TxFn) error

	// RunInReadTx executes fn within a read-only transaction, giving
	// readers a consistent snapshot of the record graph.
	RunInReadTx(ctx context.Context, fn TxFn) error
}

// SQLRunner implements TxRunner over a *sql.DB.
type SQLRunner struct {
	db *sql.DB
}

// NewSQLRunner creates a TxRunner backed by the given database handle.
func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

var _ TxRunner = (*SQLRunner)(nil)

// RunInTx implements TxRunner.RunInTx.
func (r *SQLRunner) RunInTx(ctx context.Context, fn TxFn) error {
	return runInTransaction(ctx, r.db, nil, fn)
}

// RunInReadTx implements TxRunner.RunInReadTx.
func (r *SQLRunner) RunInReadTx(ctx context.Context, fn TxFn) error {
	return runInTransaction(ctx, r.db, &sql.TxOptions{ReadOnly: true}, fn)
}

// runInTransaction executes fn within a transaction, rolling back on
// error or panic and committing otherwise.
func runInTransaction(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rollbackErr, err)
		}
		log.Debug("rolled back transaction",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	return nil
}
