package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/platform/logger"
	"github.com/phrazzld/splitledger/internal/store"
)

// PostgresExpenseStore implements the store.ExpenseStore interface using
// a PostgreSQL database as the storage backend.
type PostgresExpenseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExpenseStore creates a new PostgreSQL implementation of the
// ExpenseStore interface.
func NewPostgresExpenseStore(db store.DBTX, logger *slog.Logger) *PostgresExpenseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExpenseStore{
		db:     db,
		logger: logger.With(slog.String("component", "expense_store")),
	}
}

// Ensure PostgresExpenseStore implements store.ExpenseStore
var _ store.ExpenseStore = (*PostgresExpenseStore)(nil)

// WithTx implements store.ExpenseStore.WithTx
func (s *PostgresExpenseStore) WithTx(tx *sql.Tx) store.ExpenseStore {
	return &PostgresExpenseStore{db: tx, logger: s.logger}
}

// Create implements store.ExpenseStore.Create
// The expense row and all share rows are written together; the caller is
// expected to run this inside a transaction.
func (s *PostgresExpenseStore) Create(ctx context.Context, expense *domain.Expense) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := expense.Validate(); err != nil {
		log.Warn("expense validation failed during create",
			slog.String("error", err.Error()),
			slog.String("expense_id", expense.ID.String()))
		return err
	}
	if len(expense.Shares) == 0 {
		return domain.ErrNoDebtors
	}

	query := `
		INSERT INTO expenses (id, group_id, payer_id, description, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		expense.ID, expense.GroupID, expense.PayerID,
		expense.Description, expense.Amount, expense.CreatedAt)
	if err != nil {
		log.Error("failed to create expense",
			slog.String("error", err.Error()),
			slog.String("expense_id", expense.ID.String()))
		return mapError(err, store.ErrExpenseNotFound)
	}

	shareQuery := `
		INSERT INTO expense_shares (id, expense_id, debtor_id, amount)
		VALUES ($1, $2, $3, $4)
	`
	for i := range expense.Shares {
		share := &expense.Shares[i]
		if _, err := s.db.ExecContext(ctx, shareQuery,
			share.ID, share.ExpenseID, share.DebtorID, share.Amount); err != nil {
			log.Error("failed to create expense share",
				slog.String("error", err.Error()),
				slog.String("share_id", share.ID.String()))
			return mapError(err, store.ErrShareNotFound)
		}
	}

	log.Debug("expense created",
		slog.String("expense_id", expense.ID.String()),
		slog.Int("shares", len(expense.Shares)))
	return nil
}

// GetByID implements store.ExpenseStore.GetByID
func (s *PostgresExpenseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	query := `
		SELECT id, group_id, payer_id, description, amount, created_at
		FROM expenses
		WHERE id = $1
	`
	var expense domain.Expense
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID, &expense.GroupID, &expense.PayerID,
		&expense.Description, &expense.Amount, &expense.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrExpenseNotFound
		}
		return nil, mapError(err, store.ErrExpenseNotFound)
	}

	shares, err := s.loadShares(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares
	return &expense, nil
}

// Delete implements store.ExpenseStore.Delete
// Shares are removed first, then the expense row, preserving referential
// integrity without ON DELETE CASCADE.
func (s *PostgresExpenseStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM expense_shares WHERE expense_id = $1`, id); err != nil {
		return mapError(err, store.ErrExpenseNotFound)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return mapError(err, store.ErrExpenseNotFound)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrExpenseNotFound
	}

	log.Debug("expense deleted", slog.String("expense_id", id.String()))
	return nil
}

// GetShare implements store.ExpenseStore.GetShare
func (s *PostgresExpenseStore) GetShare(ctx context.Context, shareID uuid.UUID) (*domain.ExpenseShare, error) {
	query := `
		SELECT id, expense_id, debtor_id, amount
		FROM expense_shares
		WHERE id = $1
	`
	var share domain.ExpenseShare
	err := s.db.QueryRowContext(ctx, query, shareID).Scan(
		&share.ID, &share.ExpenseID, &share.DebtorID, &share.Amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrShareNotFound
		}
		return nil, mapError(err, store.ErrShareNotFound)
	}
	return &share, nil
}

// DeleteShare implements store.ExpenseStore.DeleteShare
func (s *PostgresExpenseStore) DeleteShare(ctx context.Context, shareID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM expense_shares WHERE id = $1`, shareID)
	if err != nil {
		return mapError(err, store.ErrShareNotFound)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrShareNotFound
	}
	return nil
}

// DeleteSharesByDebtor implements store.ExpenseStore.DeleteSharesByDebtor
func (s *PostgresExpenseStore) DeleteSharesByDebtor(ctx context.Context, debtorID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM expense_shares WHERE debtor_id = $1`, debtorID)
	if err != nil {
		return 0, mapError(err, store.ErrShareNotFound)
	}
	rows, err := result.RowsAffected()
	return int(rows), err
}

// ListByGroup implements store.ExpenseStore.ListByGroup
func (s *PostgresExpenseStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.Expense, error) {
	query := `
		SELECT id, group_id, payer_id, description, amount, created_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY created_at
	`
	return s.queryExpenses(ctx, query, groupID)
}

// ListByPayer implements store.ExpenseStore.ListByPayer
func (s *PostgresExpenseStore) ListByPayer(ctx context.Context, payerID uuid.UUID) ([]*domain.Expense, error) {
	query := `
		SELECT id, group_id, payer_id, description, amount, created_at
		FROM expenses
		WHERE payer_id = $1
		ORDER BY created_at
	`
	return s.queryExpenses(ctx, query, payerID)
}

// ListSharesByDebtor implements store.ExpenseStore.ListSharesByDebtor
func (s *PostgresExpenseStore) ListSharesByDebtor(ctx context.Context, debtorID uuid.UUID) ([]*domain.ExpenseShare, error) {
	query := `
		SELECT id, expense_id, debtor_id, amount
		FROM expense_shares
		WHERE debtor_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, debtorID)
	if err != nil {
		return nil, mapError(err, store.ErrShareNotFound)
	}
	defer rows.Close()

	var shares []*domain.ExpenseShare
	for rows.Next() {
		var share domain.ExpenseShare
		if err := rows.Scan(&share.ID, &share.ExpenseID,
			&share.DebtorID, &share.Amount); err != nil {
			return nil, err
		}
		shares = append(shares, &share)
	}
	return shares, rows.Err()
}

func (s *PostgresExpenseStore) queryExpenses(ctx context.Context, query string, args ...any) ([]*domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrExpenseNotFound)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PayerID,
			&expense.Description, &expense.Amount, &expense.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, &expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		shares, err := s.loadShares(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Shares = shares
	}
	return expenses, nil
}

func (s *PostgresExpenseStore) loadShares(ctx context.Context, expenseID uuid.UUID) ([]domain.ExpenseShare, error) {
	query := `
		SELECT id, expense_id, debtor_id, amount
		FROM expense_shares
		WHERE expense_id = $1
		ORDER BY debtor_id
	`
	rows, err := s.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, mapError(err, store.ErrShareNotFound)
	}
	defer rows.Close()

	var shares []domain.ExpenseShare
	for rows.Next() {
		var share domain.ExpenseShare
		if err := rows.Scan(&share.ID, &share.ExpenseID,
			&share.DebtorID, &share.Amount); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}
