package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewExpense(t *testing.T) {
	groupID := uuid.New()
	payerID := uuid.New()

	expense, err := NewExpense(groupID, payerID, "Groceries", decimal.RequireFromString("42.50"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if expense.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if expense.GroupID != groupID || expense.PayerID != payerID {
		t.Error("Expected group and payer ids to be set")
	}

	cases := []struct {
		name    string
		group   uuid.UUID
		payer   uuid.UUID
		amount  string
		wantErr error
	}{
		{"empty group", uuid.Nil, payerID, "10.00", ErrEmptyExpenseGroupID},
		{"empty payer", groupID, uuid.Nil, "10.00", ErrEmptyExpensePayerID},
		{"zero amount", groupID, payerID, "0", ErrNonPositiveAmount},
		{"negative amount", groupID, payerID, "-3.50", ErrNonPositiveAmount},
		{"sub-cent amount", groupID, payerID, "9.999", ErrPrecision},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewExpense(tc.group, tc.payer, "x", decimal.RequireFromString(tc.amount))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestExpenseSplitEqually(t *testing.T) {
	expense, err := NewExpense(uuid.New(), uuid.New(), "Dinner", decimal.RequireFromString("100.00"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	debtors := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	if err := expense.SplitEqually(debtors); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(expense.Shares) != 3 {
		t.Fatalf("Expected 3 shares, got %d", len(expense.Shares))
	}

	sum := decimal.Zero
	for i := range expense.Shares {
		share := &expense.Shares[i]
		if share.ExpenseID != expense.ID {
			t.Errorf("Share %d does not reference its parent expense", i)
		}
		if share.DebtorID != debtors[i] {
			t.Errorf("Share %d: expected debtor %s, got %s", i, debtors[i], share.DebtorID)
		}
		sum = sum.Add(share.Amount)
	}
	if !sum.Equal(expense.Amount) {
		t.Errorf("Shares sum to %s, expense is %s", sum, expense.Amount)
	}

	if err := expense.SplitEqually(nil); !errors.Is(err, ErrNoDebtors) {
		t.Errorf("Expected ErrNoDebtors, got %v", err)
	}
	dup := uuid.New()
	if err := expense.SplitEqually([]uuid.UUID{dup, dup}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for duplicate debtor, got %v", err)
	}
}

func TestExpenseSplitExplicit(t *testing.T) {
	expense, err := NewExpense(uuid.New(), uuid.New(), "Rent", decimal.RequireFromString("100.00"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	a, b, c := uuid.New(), uuid.New(), uuid.New()

	err = expense.SplitExplicit(map[uuid.UUID]decimal.Decimal{
		a: decimal.RequireFromString("33.33"),
		b: decimal.RequireFromString("33.33"),
		c: decimal.RequireFromString("33.34"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := expense.Validate(); err != nil {
		t.Errorf("Expected valid expense, got %v", err)
	}

	err = expense.SplitExplicit(map[uuid.UUID]decimal.Decimal{
		a: decimal.RequireFromString("50.00"),
		b: decimal.RequireFromString("49.00"),
	})
	if !errors.Is(err, ErrShareSumMismatch) {
		t.Errorf("Expected ErrShareSumMismatch, got %v", err)
	}

	err = expense.SplitExplicit(map[uuid.UUID]decimal.Decimal{
		a: decimal.RequireFromString("-1.00"),
		b: decimal.RequireFromString("101.00"),
	})
	if !errors.Is(err, ErrNegativeShareAmount) {
		t.Errorf("Expected ErrNegativeShareAmount, got %v", err)
	}
}

func TestExpenseValidateShareInvariants(t *testing.T) {
	expense, err := NewExpense(uuid.New(), uuid.New(), "Taxi", decimal.RequireFromString("20.00"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A share larger than the expense amount is rejected even when a
	// negative sibling would make the sum work out.
	big, _ := NewExpenseShare(expense.ID, uuid.New(), decimal.RequireFromString("25.00"))
	expense.Shares = []ExpenseShare{*big}
	if err := expense.Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState for oversized share, got %v", err)
	}

	// A share referencing a different expense is rejected.
	foreign, _ := NewExpenseShare(uuid.New(), uuid.New(), decimal.RequireFromString("20.00"))
	expense.Shares = []ExpenseShare{*foreign}
	if err := expense.Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState for foreign share, got %v", err)
	}
}
