package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mustExpense(t *testing.T, groupID, payerID uuid.UUID, amount string, splits map[uuid.UUID]string) *Expense {
	t.Helper()

	expense, err := NewExpense(groupID, payerID, "test", decimal.RequireFromString(amount))
	if err != nil {
		t.Fatalf("NewExpense: %v", err)
	}

	shares := make(map[uuid.UUID]decimal.Decimal, len(splits))
	for debtorID, s := range splits {
		shares[debtorID] = decimal.RequireFromString(s)
	}
	if err := expense.SplitExplicit(shares); err != nil {
		t.Fatalf("SplitExplicit: %v", err)
	}
	return expense
}

func mustSettlement(t *testing.T, from, to uuid.UUID, amount string) *Settlement {
	t.Helper()

	settlement, err := NewSettlement(from, to, uuid.NullUUID{}, decimal.RequireFromString(amount), "")
	if err != nil {
		t.Fatalf("NewSettlement: %v", err)
	}
	return settlement
}

func TestComputeNetBalance(t *testing.T) {
	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	t.Run("no activity is exactly zero", func(t *testing.T) {
		balance, err := ComputeNetBalance(alice, nil, nil, nil)
		if err != nil {
			t.Fatalf("ComputeNetBalance: %v", err)
		}
		if !balance.Net().IsZero() || !balance.OwedToUser.IsZero() || !balance.UserOwes.IsZero() {
			t.Errorf("Expected zero balance, got %+v", balance)
		}
	})

	t.Run("own share counts on neither side", func(t *testing.T) {
		expense := mustExpense(t, groupID, alice, "90.00", map[uuid.UUID]string{
			alice: "30.00", bob: "30.00", carol: "30.00",
		})

		owedShares := make([]*ExpenseShare, 0)
		for i := range expense.Shares {
			if expense.Shares[i].DebtorID == alice {
				owedShares = append(owedShares, &expense.Shares[i])
			}
		}

		balance, err := ComputeNetBalance(alice, []*Expense{expense}, owedShares, nil)
		if err != nil {
			t.Fatalf("ComputeNetBalance: %v", err)
		}
		if !balance.OwedToUser.Equal(decimal.RequireFromString("60.00")) {
			t.Errorf("OwedToUser = %s, want 60.00", balance.OwedToUser)
		}
		if !balance.UserOwes.IsZero() {
			t.Errorf("UserOwes = %s, want 0", balance.UserOwes)
		}
	})

	t.Run("settlements reduce each side", func(t *testing.T) {
		expense := mustExpense(t, groupID, alice, "90.00", map[uuid.UUID]string{
			alice: "30.00", bob: "30.00", carol: "30.00",
		})
		received := mustSettlement(t, bob, alice, "30.00")

		balance, err := ComputeNetBalance(alice, []*Expense{expense}, nil, []*Settlement{received})
		if err != nil {
			t.Fatalf("ComputeNetBalance: %v", err)
		}
		if !balance.Net().Equal(decimal.RequireFromString("30.00")) {
			t.Errorf("Net = %s, want 30.00", balance.Net())
		}

		var bobShare *ExpenseShare
		for i := range expense.Shares {
			if expense.Shares[i].DebtorID == bob {
				bobShare = &expense.Shares[i]
			}
		}
		balance, err = ComputeNetBalance(bob, nil,
			[]*ExpenseShare{bobShare}, []*Settlement{received})
		if err != nil {
			t.Fatalf("ComputeNetBalance: %v", err)
		}
		if !balance.Net().IsZero() {
			t.Errorf("Net = %s, want 0", balance.Net())
		}
	})

	t.Run("records of other users are ignored", func(t *testing.T) {
		expense := mustExpense(t, groupID, bob, "20.00", map[uuid.UUID]string{carol: "20.00"})
		settlement := mustSettlement(t, carol, bob, "5.00")

		balance, err := ComputeNetBalance(alice, []*Expense{expense},
			nil, []*Settlement{settlement})
		if err != nil {
			t.Fatalf("ComputeNetBalance: %v", err)
		}
		if !balance.Net().IsZero() {
			t.Errorf("Net = %s, want 0", balance.Net())
		}
	})

	t.Run("sub-cent share fails with precision error", func(t *testing.T) {
		expense := &Expense{
			ID:      uuid.New(),
			GroupID: groupID,
			PayerID: alice,
			Amount:  decimal.RequireFromString("0.001"),
		}
		expense.Shares = []ExpenseShare{{
			ID:        uuid.New(),
			ExpenseID: expense.ID,
			DebtorID:  bob,
			Amount:    decimal.RequireFromString("0.001"),
		}}

		_, err := ComputeNetBalance(alice, []*Expense{expense}, nil, nil)
		if !errors.Is(err, ErrPrecision) {
			t.Errorf("Expected ErrPrecision, got %v", err)
		}
	})
}

func TestComputeGroupBalances(t *testing.T) {
	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	members := []uuid.UUID{alice, bob, carol}

	sumOf := func(balances []MemberBalance) decimal.Decimal {
		sum := decimal.Zero
		for _, b := range balances {
			sum = sum.Add(b.Net)
		}
		return sum
	}
	netOf := func(balances []MemberBalance, id uuid.UUID) decimal.Decimal {
		for _, b := range balances {
			if b.UserID == id {
				return b.Net
			}
		}
		t.Fatalf("no balance for %s", id)
		return decimal.Zero
	}

	t.Run("positions always sum to zero", func(t *testing.T) {
		expenses := []*Expense{
			mustExpense(t, groupID, alice, "90.00", map[uuid.UUID]string{
				alice: "30.00", bob: "30.00", carol: "30.00",
			}),
			mustExpense(t, groupID, bob, "10.00", map[uuid.UUID]string{
				alice: "5.00", carol: "5.00",
			}),
		}
		settlements := []*Settlement{mustSettlement(t, carol, alice, "12.00")}

		balances, err := ComputeGroupBalances(members, expenses, settlements)
		if err != nil {
			t.Fatalf("ComputeGroupBalances: %v", err)
		}
		if len(balances) != 3 {
			t.Fatalf("Expected 3 balances, got %d", len(balances))
		}
		if !sumOf(balances).IsZero() {
			t.Errorf("Positions sum to %s, want 0", sumOf(balances))
		}
		if !netOf(balances, alice).Equal(decimal.RequireFromString("43.00")) {
			t.Errorf("alice net = %s, want 43.00", netOf(balances, alice))
		}
	})

	t.Run("former members keep their positions", func(t *testing.T) {
		ghost := uuid.New()
		expenses := []*Expense{
			mustExpense(t, groupID, alice, "20.00", map[uuid.UUID]string{ghost: "20.00"}),
		}

		balances, err := ComputeGroupBalances(members, expenses, nil)
		if err != nil {
			t.Fatalf("ComputeGroupBalances: %v", err)
		}
		if len(balances) != 4 {
			t.Fatalf("Expected 4 balances, got %d", len(balances))
		}
		if !netOf(balances, ghost).Equal(decimal.RequireFromString("-20.00")) {
			t.Errorf("ghost net = %s, want -20.00", netOf(balances, ghost))
		}
		if !sumOf(balances).IsZero() {
			t.Errorf("Positions sum to %s, want 0", sumOf(balances))
		}
	})

	t.Run("empty group is empty, not an error", func(t *testing.T) {
		balances, err := ComputeGroupBalances(nil, nil, nil)
		if err != nil {
			t.Fatalf("ComputeGroupBalances: %v", err)
		}
		if len(balances) != 0 {
			t.Errorf("Expected no balances, got %d", len(balances))
		}
	})
}

func TestSimplifyDebts(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	dave := uuid.New()

	d := decimal.RequireFromString

	t.Run("one debtor one creditor", func(t *testing.T) {
		edges := SimplifyDebts([]MemberBalance{
			{UserID: alice, Net: d("30.00")},
			{UserID: carol, Net: d("-30.00")},
			{UserID: bob, Net: d("0.00")},
		})
		if len(edges) != 1 {
			t.Fatalf("Expected 1 edge, got %d", len(edges))
		}
		if edges[0].FromUserID != carol || edges[0].ToUserID != alice {
			t.Errorf("Expected carol -> alice, got %s -> %s", edges[0].FromUserID, edges[0].ToUserID)
		}
		if !edges[0].Amount.Equal(d("30.00")) {
			t.Errorf("Amount = %s, want 30.00", edges[0].Amount)
		}
	})

	t.Run("largest positions match first", func(t *testing.T) {
		edges := SimplifyDebts([]MemberBalance{
			{UserID: alice, Net: d("50.00")},
			{UserID: bob, Net: d("10.00")},
			{UserID: carol, Net: d("-40.00")},
			{UserID: dave, Net: d("-20.00")},
		})
		if len(edges) != 3 {
			t.Fatalf("Expected 3 edges, got %d", len(edges))
		}

		// The plan must replay the positions exactly.
		nets := map[uuid.UUID]decimal.Decimal{
			alice: decimal.Zero, bob: decimal.Zero, carol: decimal.Zero, dave: decimal.Zero,
		}
		for _, edge := range edges {
			nets[edge.FromUserID] = nets[edge.FromUserID].Add(edge.Amount)
			nets[edge.ToUserID] = nets[edge.ToUserID].Sub(edge.Amount)
			if !edge.Amount.IsPositive() {
				t.Errorf("Edge amount %s is not positive", edge.Amount)
			}
		}
		for id, want := range map[uuid.UUID]string{
			alice: "-50.00", bob: "-10.00", carol: "40.00", dave: "20.00",
		} {
			if !nets[id].Equal(d(want)) {
				t.Errorf("Replayed net for %s = %s, want %s", id, nets[id], want)
			}
		}
	})

	t.Run("settled group needs no transfers", func(t *testing.T) {
		edges := SimplifyDebts([]MemberBalance{
			{UserID: alice, Net: d("0.00")},
			{UserID: bob, Net: d("0.00")},
		})
		if len(edges) != 0 {
			t.Errorf("Expected no edges, got %d", len(edges))
		}
	})
}
