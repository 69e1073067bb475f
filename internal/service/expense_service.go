package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/store"
	"github.com/shopspring/decimal"
)

// CreateExpenseInput describes a new expense. Exactly one split mode
// applies: explicit Shares when set, otherwise an equal split among
// DebtorIDs, and when both are empty an equal split among all current
// group members.
type CreateExpenseInput struct {
	GroupID     uuid.UUID
	PayerID     uuid.UUID
	Description string
	Amount      decimal.Decimal

	// DebtorIDs selects an equal split among the listed members.
	DebtorIDs []uuid.UUID

	// Shares selects an explicit split with per-debtor amounts. The
	// amounts must sum exactly to Amount.
	Shares map[uuid.UUID]decimal.Decimal
}

// ExpenseService records and removes expenses. Shares are exclusively
// owned by their expense: they are created with it, removed with it, and
// never outlive it.
type ExpenseService interface {
	// CreateExpense records an expense and its shares in one transaction.
	// The payer and every debtor must be members of the group.
	CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error)

	// GetExpense retrieves an expense with its shares.
	GetExpense(ctx context.Context, expenseID uuid.UUID) (*domain.Expense, error)

	// RemoveShare deletes a single share from an expense. Removing a
	// share that is already gone returns store.ErrShareNotFound.
	RemoveShare(ctx context.Context, expenseID, shareID uuid.UUID) error

	// DeleteExpense deletes the expense and all of its shares.
	DeleteExpense(ctx context.Context, expenseID uuid.UUID) error

	// ListGroupExpenses returns the group's expenses with their shares.
	ListGroupExpenses(ctx context.Context, groupID uuid.UUID) ([]*domain.Expense, error)
}

// ExpenseServiceImpl implements the ExpenseService interface.
type ExpenseServiceImpl struct {
	groupStore   store.GroupStore
	expenseStore store.ExpenseStore
	runner       store.TxRunner
	logger       *slog.Logger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(
	groupStore store.GroupStore,
	expenseStore store.ExpenseStore,
	runner store.TxRunner,
	logger *slog.Logger,
) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{
		groupStore:   groupStore,
		expenseStore: expenseStore,
		runner:       runner,
		logger:       logger.With("component", "expense_service"),
	}
}

var _ ExpenseService = (*ExpenseServiceImpl)(nil)

// CreateExpense implements ExpenseService.CreateExpense.
func (s *ExpenseServiceImpl) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	expense, err := domain.NewExpense(input.GroupID, input.PayerID, input.Description, input.Amount)
	if err != nil {
		return nil, err
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := s.groupStore.WithTx(tx)
		expenses := s.expenseStore.WithTx(tx)

		if _, err := groups.GetForUpdate(ctx, input.GroupID); err != nil {
			return err
		}

		payerMember, err := groups.IsMember(ctx, input.GroupID, input.PayerID)
		if err != nil {
			return err
		}
		if !payerMember {
			return fmt.Errorf("%w: user %s", ErrPayerNotMember, input.PayerID)
		}

		switch {
		case len(input.Shares) > 0:
			for debtorID := range input.Shares {
				if err := s.requireDebtor(ctx, groups, input.GroupID, debtorID); err != nil {
					return err
				}
			}
			if err := expense.SplitExplicit(input.Shares); err != nil {
				return err
			}
		case len(input.DebtorIDs) > 0:
			for _, debtorID := range input.DebtorIDs {
				if err := s.requireDebtor(ctx, groups, input.GroupID, debtorID); err != nil {
					return err
				}
			}
			if err := expense.SplitEqually(input.DebtorIDs); err != nil {
				return err
			}
		default:
			memberIDs, err := groups.ListMemberIDs(ctx, input.GroupID)
			if err != nil {
				return err
			}
			if err := expense.SplitEqually(memberIDs); err != nil {
				return err
			}
		}

		return expenses.Create(ctx, expense)
	})
	if err != nil {
		s.logger.Error("failed to create expense", "error", err,
			"group_id", input.GroupID, "payer_id", input.PayerID)
		return nil, err
	}

	s.logger.Info("expense created", "expense_id", expense.ID,
		"group_id", expense.GroupID, "amount", expense.Amount.String(),
		"shares", len(expense.Shares))
	return expense, nil
}

func (s *ExpenseServiceImpl) requireDebtor(ctx context.Context, groups store.GroupStore, groupID, debtorID uuid.UUID) error {
	isMember, err := groups.IsMember(ctx, groupID, debtorID)
	if err != nil {
		return err
	}
	if !isMember {
		return fmt.Errorf("%w: user %s", ErrDebtorNotMember, debtorID)
	}
	return nil
}

// GetExpense implements ExpenseService.GetExpense.
func (s *ExpenseServiceImpl) GetExpense(ctx context.Context, expenseID uuid.UUID) (*domain.Expense, error) {
	return s.expenseStore.GetByID(ctx, expenseID)
}

// RemoveShare implements ExpenseService.RemoveShare.
func (s *ExpenseServiceImpl) RemoveShare(ctx context.Context, expenseID, shareID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		expenses := s.expenseStore.WithTx(tx)

		share, err := expenses.GetShare(ctx, shareID)
		if err != nil {
			return err
		}
		if share.ExpenseID != expenseID {
			return fmt.Errorf("%w: share %s does not belong to expense %s",
				store.ErrShareNotFound, shareID, expenseID)
		}
		return expenses.DeleteShare(ctx, share.ID)
	})
	if err != nil {
		s.logger.Error("failed to remove share", "error", err,
			"expense_id", expenseID, "share_id", shareID)
		return err
	}

	s.logger.Info("share removed", "expense_id", expenseID, "share_id", shareID)
	return nil
}

// DeleteExpense implements ExpenseService.DeleteExpense.
func (s *ExpenseServiceImpl) DeleteExpense(ctx context.Context, expenseID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		expenses := s.expenseStore.WithTx(tx)

		if _, err := expenses.GetByID(ctx, expenseID); err != nil {
			return err
		}
		return expenses.Delete(ctx, expenseID)
	})
	if err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", expenseID)
		return err
	}

	s.logger.Info("expense deleted", "expense_id", expenseID)
	return nil
}

// ListGroupExpenses implements ExpenseService.ListGroupExpenses.
func (s *ExpenseServiceImpl) ListGroupExpenses(ctx context.Context, groupID uuid.UUID) ([]*domain.Expense, error) {
	return s.expenseStore.ListByGroup(ctx, groupID)
}
