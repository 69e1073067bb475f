package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/store"
)

// BalanceService answers net-position queries. It never mutates the
// ledger; every query reads one consistent snapshot so a balance is
// never computed from a half-applied cascade.
type BalanceService interface {
	// NetBalance returns the user's balance, scoped to one group when
	// groupID is set and across all records otherwise. Group-scoped
	// queries count the group's expenses and the settlements scoped to
	// it; global queries count everything. A user with no activity gets
	// an exactly zero balance.
	NetBalance(ctx context.Context, userID uuid.UUID, groupID uuid.NullUUID) (domain.Balance, error)

	// GroupBalances returns every group member's net position and a
	// simplified repayment plan that settles those positions.
	GroupBalances(ctx context.Context, groupID uuid.UUID) ([]domain.MemberBalance, []domain.DebtEdge, error)
}

// BalanceServiceImpl implements the BalanceService interface.
type BalanceServiceImpl struct {
	userStore       store.UserStore
	groupStore      store.GroupStore
	expenseStore    store.ExpenseStore
	settlementStore store.SettlementStore
	runner          store.TxRunner
	logger          *slog.Logger
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(
	userStore store.UserStore,
	groupStore store.GroupStore,
	expenseStore store.ExpenseStore,
	settlementStore store.SettlementStore,
	runner store.TxRunner,
	logger *slog.Logger,
) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		userStore:       userStore,
		groupStore:      groupStore,
		expenseStore:    expenseStore,
		settlementStore: settlementStore,
		runner:          runner,
		logger:          logger.With("component", "balance_service"),
	}
}

var _ BalanceService = (*BalanceServiceImpl)(nil)

// NetBalance implements BalanceService.NetBalance.
func (s *BalanceServiceImpl) NetBalance(ctx context.Context, userID uuid.UUID, groupID uuid.NullUUID) (domain.Balance, error) {
	var balance domain.Balance

	err := s.runner.RunInReadTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		expenses := s.expenseStore.WithTx(tx)
		settlements := s.settlementStore.WithTx(tx)

		if _, err := users.GetByID(ctx, userID); err != nil {
			return err
		}

		var (
			paid        []*domain.Expense
			owed        []*domain.ExpenseShare
			settled     []*domain.Settlement
			computeErr  error
		)

		if groupID.Valid {
			groups := s.groupStore.WithTx(tx)
			if _, err := groups.GetByID(ctx, groupID.UUID); err != nil {
				return err
			}

			groupExpenses, err := expenses.ListByGroup(ctx, groupID.UUID)
			if err != nil {
				return err
			}
			for _, expense := range groupExpenses {
				if expense.PayerID == userID {
					paid = append(paid, expense)
					continue
				}
				for i := range expense.Shares {
					if expense.Shares[i].DebtorID == userID {
						owed = append(owed, &expense.Shares[i])
					}
				}
			}

			settled, err = settlements.ListByGroup(ctx, groupID.UUID)
			if err != nil {
				return err
			}
		} else {
			var err error
			paid, err = expenses.ListByPayer(ctx, userID)
			if err != nil {
				return err
			}
			owed, err = expenses.ListSharesByDebtor(ctx, userID)
			if err != nil {
				return err
			}
			settled, err = settlements.ListForUser(ctx, userID)
			if err != nil {
				return err
			}
		}

		balance, computeErr = domain.ComputeNetBalance(userID, paid, owed, settled)
		return computeErr
	})
	if err != nil {
		s.logger.Error("failed to compute net balance", "error", err,
			"user_id", userID, "group_scoped", groupID.Valid)
		return domain.Balance{}, err
	}

	return balance, nil
}

// GroupBalances implements BalanceService.GroupBalances.
func (s *BalanceServiceImpl) GroupBalances(ctx context.Context, groupID uuid.UUID) ([]domain.MemberBalance, []domain.DebtEdge, error) {
	var (
		balances []domain.MemberBalance
		plan     []domain.DebtEdge
	)

	err := s.runner.RunInReadTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := s.groupStore.WithTx(tx)
		expenses := s.expenseStore.WithTx(tx)
		settlements := s.settlementStore.WithTx(tx)

		if _, err := groups.GetByID(ctx, groupID); err != nil {
			return err
		}

		memberIDs, err := groups.ListMemberIDs(ctx, groupID)
		if err != nil {
			return err
		}
		groupExpenses, err := expenses.ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		groupSettlements, err := settlements.ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}

		balances, err = domain.ComputeGroupBalances(memberIDs, groupExpenses, groupSettlements)
		if err != nil {
			return err
		}
		plan = domain.SimplifyDebts(balances)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to compute group balances", "error", err,
			"group_id", groupID)
		return nil, nil, err
	}

	return balances, plan, nil
}
