package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/store"
)

// deleteGroupCascade removes a group and everything it exclusively owns
// using the provided tx-scoped stores. Children go first so the restrict
// foreign keys never fire:
//
//  1. the group's expenses, each with its shares
//  2. settlements scoped to the group are detached, not deleted — the
//     payments happened and stay part of global balances
//  3. the membership links
//  4. the group row itself
//
// Members are never deleted; losing a group does not lose its users.
func deleteGroupCascade(
	ctx context.Context,
	log *slog.Logger,
	groups store.GroupStore,
	expenses store.ExpenseStore,
	settlements store.SettlementStore,
	groupID uuid.UUID,
) error {
	groupExpenses, err := expenses.ListByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to list group expenses: %w", err)
	}
	for _, expense := range groupExpenses {
		if err := expenses.Delete(ctx, expense.ID); err != nil {
			return fmt.Errorf("failed to delete expense %s: %w", expense.ID, err)
		}
	}

	detached, err := settlements.DetachGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to detach settlements: %w", err)
	}

	removed, err := groups.RemoveAllMembers(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to remove members: %w", err)
	}

	if err := groups.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	log.Debug("group cascade complete",
		slog.String("group_id", groupID.String()),
		slog.Int("expenses_deleted", len(groupExpenses)),
		slog.Int("settlements_detached", detached),
		slog.Int("members_removed", removed))
	return nil
}
