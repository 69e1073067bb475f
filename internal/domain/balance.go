package domain

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is one user's financial position derived from the ledger.
// Both components are non-negative before settlements are applied;
// settlements can drive either below zero when someone over-pays.
type Balance struct {
	// OwedToUser is the sum of shares other users owe on the user's
	// expenses, less settlements the user has received.
	OwedToUser decimal.Decimal `json:"owed_to_user"`

	// UserOwes is the sum of shares the user owes on other users'
	// expenses, less settlements the user has paid.
	UserOwes decimal.Decimal `json:"user_owes"`
}

// Net returns the user's net position: positive when the user is owed
// money overall, negative when the user owes.
func (b Balance) Net() decimal.Decimal {
	return b.OwedToUser.Sub(b.UserOwes)
}

// MemberBalance is one group member's net position within the group.
type MemberBalance struct {
	UserID uuid.UUID       `json:"user_id"`
	Net    decimal.Decimal `json:"net"`
}

// DebtEdge is a single suggested repayment in a simplified debt graph.
type DebtEdge struct {
	FromUserID uuid.UUID       `json:"from_user_id"`
	ToUserID   uuid.UUID       `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// ComputeNetBalance derives the balance of userID from the records that
// involve them. paidExpenses are the expenses the user paid, with shares
// loaded; owedShares are the shares where the user is the debtor;
// settlements are the settlements the user sent or received. Records
// involving other users only are ignored, so callers may pass supersets.
//
// Shares the user owes on their own expenses cancel out and count on
// neither side. Returns ErrPrecision if any amount is not cent-exact.
func ComputeNetBalance(userID uuid.UUID, paidExpenses []*Expense, owedShares []*ExpenseShare, settlements []*Settlement) (Balance, error) {
	balance := Balance{
		OwedToUser: decimal.Zero,
		UserOwes:   decimal.Zero,
	}

	ownExpenses := make(map[uuid.UUID]struct{}, len(paidExpenses))
	for _, expense := range paidExpenses {
		if expense.PayerID != userID {
			continue
		}
		ownExpenses[expense.ID] = struct{}{}
		for i := range expense.Shares {
			share := &expense.Shares[i]
			if share.DebtorID == userID {
				continue
			}
			if err := CheckPrecision(share.Amount); err != nil {
				return Balance{}, err
			}
			balance.OwedToUser = balance.OwedToUser.Add(share.Amount)
		}
	}

	for _, share := range owedShares {
		if share.DebtorID != userID {
			continue
		}
		if _, own := ownExpenses[share.ExpenseID]; own {
			continue
		}
		if err := CheckPrecision(share.Amount); err != nil {
			return Balance{}, err
		}
		balance.UserOwes = balance.UserOwes.Add(share.Amount)
	}

	for _, settlement := range settlements {
		if err := CheckPrecision(settlement.Amount); err != nil {
			return Balance{}, err
		}
		switch userID {
		case settlement.ToUserID:
			balance.OwedToUser = balance.OwedToUser.Sub(settlement.Amount)
		case settlement.FromUserID:
			balance.UserOwes = balance.UserOwes.Sub(settlement.Amount)
		}
	}

	return balance, nil
}

// ComputeGroupBalances derives every member's net position within one
// group from the group's expenses and group-scoped settlements. Users
// that appear in the records but not in memberIDs (former members) are
// included, so the positions always sum to zero. Results are ordered by
// user ID for determinism.
func ComputeGroupBalances(memberIDs []uuid.UUID, expenses []*Expense, settlements []*Settlement) ([]MemberBalance, error) {
	nets := make(map[uuid.UUID]decimal.Decimal, len(memberIDs))
	for _, id := range memberIDs {
		nets[id] = decimal.Zero
	}

	for _, expense := range expenses {
		if err := CheckPrecision(expense.Amount); err != nil {
			return nil, err
		}
		nets[expense.PayerID] = nets[expense.PayerID].Add(expense.Amount)
		for i := range expense.Shares {
			share := &expense.Shares[i]
			if err := CheckPrecision(share.Amount); err != nil {
				return nil, err
			}
			nets[share.DebtorID] = nets[share.DebtorID].Sub(share.Amount)
		}
	}

	for _, settlement := range settlements {
		if err := CheckPrecision(settlement.Amount); err != nil {
			return nil, err
		}
		nets[settlement.FromUserID] = nets[settlement.FromUserID].Add(settlement.Amount)
		nets[settlement.ToUserID] = nets[settlement.ToUserID].Sub(settlement.Amount)
	}

	balances := make([]MemberBalance, 0, len(nets))
	for id, net := range nets {
		balances = append(balances, MemberBalance{UserID: id, Net: net})
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].UserID.String() < balances[j].UserID.String()
	})

	return balances, nil
}

// SimplifyDebts reduces a set of member balances to a minimal-looking
// repayment plan: repeatedly matches the largest debtor with the largest
// creditor until every position is settled. The plan's edges replay the
// balances exactly but need not match the original expense pairings.
func SimplifyDebts(balances []MemberBalance) []DebtEdge {
	type position struct {
		userID uuid.UUID
		amount decimal.Decimal
	}

	var creditors, debtors []position
	for _, balance := range balances {
		switch {
		case balance.Net.IsPositive():
			creditors = append(creditors, position{balance.UserID, balance.Net})
		case balance.Net.IsNegative():
			debtors = append(debtors, position{balance.UserID, balance.Net.Neg()})
		}
	}

	byAmount := func(ps []position) func(i, j int) bool {
		return func(i, j int) bool {
			if !ps[i].amount.Equal(ps[j].amount) {
				return ps[i].amount.GreaterThan(ps[j].amount)
			}
			return ps[i].userID.String() < ps[j].userID.String()
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		edges = append(edges, DebtEdge{
			FromUserID: debtors[i].userID,
			ToUserID:   creditors[j].userID,
			Amount:     amount,
		})

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)
		if debtors[i].amount.IsZero() {
			i++
		}
		if creditors[j].amount.IsZero() {
			j++
		}
	}

	return edges
}
