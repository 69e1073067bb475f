package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common validation errors for ExpenseShare.
var (
	ErrEmptyShareID        = errors.New("expense share ID cannot be empty")
	ErrEmptyShareExpenseID = errors.New("expense share expense ID cannot be empty")
	ErrEmptyShareDebtorID  = errors.New("expense share debtor ID cannot be empty")
	ErrNegativeShareAmount = errors.New("expense share amount cannot be negative")
)

// ExpenseShare is one user's owed portion of one expense. Shares exist
// only as children of an expense and are deleted with it.
type ExpenseShare struct {
	ID        uuid.UUID       `json:"id"`
	ExpenseID uuid.UUID       `json:"expense_id"`
	DebtorID  uuid.UUID       `json:"debtor_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewExpenseShare creates a share of expenseID owed by debtorID.
// The amount must be non-negative and cent-exact; a zero share is legal
// (e.g. a participant exempted from an explicit split).
func NewExpenseShare(expenseID, debtorID uuid.UUID, amount decimal.Decimal) (*ExpenseShare, error) {
	share := &ExpenseShare{
		ID:        uuid.New(),
		ExpenseID: expenseID,
		DebtorID:  debtorID,
		Amount:    amount,
	}

	if err := share.Validate(); err != nil {
		return nil, err
	}

	return share, nil
}

// Validate checks if the ExpenseShare has valid data.
func (s *ExpenseShare) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyShareID
	}
	if s.ExpenseID == uuid.Nil {
		return ErrEmptyShareExpenseID
	}
	if s.DebtorID == uuid.Nil {
		return ErrEmptyShareDebtorID
	}
	if s.Amount.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrNegativeShareAmount, s.Amount.String())
	}
	return CheckPrecision(s.Amount)
}

// Equal reports record identity by assigned id.
func (s *ExpenseShare) Equal(other *ExpenseShare) bool {
	if other == nil || s.ID == uuid.Nil || other.ID == uuid.Nil {
		return false
	}
	return s.ID == other.ID
}
