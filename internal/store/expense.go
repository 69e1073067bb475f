package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
)

// ExpenseStore defines the interface for expense and expense-share
// persistence. Shares are exclusively owned by their expense and are
// written and deleted together with it.
type ExpenseStore interface {
	// Create saves a new expense together with its shares.
	// The expense must satisfy the share-sum invariant.
	// Returns ErrIntegrityViolation if the group, payer or a debtor does
	// not exist.
	Create(ctx context.Context, expense *domain.Expense) error

	// GetByID retrieves an expense with its shares loaded.
	// Returns ErrExpenseNotFound if the expense does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error)

	// Delete removes an expense and all of its shares.
	// Returns ErrExpenseNotFound if the expense does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetShare retrieves a single expense share by its ID.
	// Returns ErrShareNotFound if the share does not exist.
	GetShare(ctx context.Context, shareID uuid.UUID) (*domain.ExpenseShare, error)

	// DeleteShare removes a single share. A second delete of the same
	// share returns ErrShareNotFound and changes nothing.
	DeleteShare(ctx context.Context, shareID uuid.UUID) error

	// DeleteSharesByDebtor removes every share owed by the user across
	// all expenses, returning the number removed. Used by cascade deletes.
	DeleteSharesByDebtor(ctx context.Context, debtorID uuid.UUID) (int, error)

	// ListByGroup returns the group's expenses with shares loaded.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.Expense, error)

	// ListByPayer returns the expenses paid by the user, with shares
	// loaded, across all groups.
	ListByPayer(ctx context.Context, payerID uuid.UUID) ([]*domain.Expense, error)

	// ListSharesByDebtor returns every share owed by the user.
	ListSharesByDebtor(ctx context.Context, debtorID uuid.UUID) ([]*domain.ExpenseShare, error)

	// WithTx returns an ExpenseStore that executes against the provided
	// transaction.
	WithTx(tx *sql.Tx) ExpenseStore
}
