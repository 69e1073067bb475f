package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common validation errors for Expense.
var (
	ErrEmptyExpenseID      = errors.New("expense ID cannot be empty")
	ErrEmptyExpenseGroupID = errors.New("expense group ID cannot be empty")
	ErrEmptyExpensePayerID = errors.New("expense payer ID cannot be empty")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrNoDebtors           = errors.New("expense must have at least one debtor")

	// ErrShareSumMismatch is returned when an expense's shares do not sum
	// to the expense amount.
	ErrShareSumMismatch = fmt.Errorf("%w: share amounts must sum to the expense amount", ErrInvalidState)
)

// Expense is a single payment made by one user on behalf of a group,
// split into shares owed by the debtors. The shares are exclusively owned
// by the expense: deleting the expense deletes them.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	GroupID     uuid.UUID       `json:"group_id"`
	PayerID     uuid.UUID       `json:"payer_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`

	// Shares is populated when the expense is loaded with its children.
	Shares []ExpenseShare `json:"shares,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewExpense creates an expense paid by payerID on behalf of groupID.
// The amount must be positive and cent-exact. Shares are attached
// afterwards via SplitEqually or SplitExplicit.
func NewExpense(groupID, payerID uuid.UUID, description string, amount decimal.Decimal) (*Expense, error) {
	expense := &Expense{
		ID:          uuid.New(),
		GroupID:     groupID,
		PayerID:     payerID,
		Description: description,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	return expense, nil
}

// Validate checks the expense and, when shares are attached, the
// share-sum invariant: the share amounts must add up to the expense
// amount exactly and no share may exceed it.
func (e *Expense) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyExpenseID
	}
	if e.GroupID == uuid.Nil {
		return ErrEmptyExpenseGroupID
	}
	if e.PayerID == uuid.Nil {
		return ErrEmptyExpensePayerID
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrNonPositiveAmount, e.Amount.String())
	}
	if err := CheckPrecision(e.Amount); err != nil {
		return err
	}

	if len(e.Shares) == 0 {
		return nil
	}

	sum := decimal.Zero
	for i := range e.Shares {
		share := &e.Shares[i]
		if err := share.Validate(); err != nil {
			return err
		}
		if share.ExpenseID != e.ID {
			return fmt.Errorf("%w: share %s belongs to a different expense", ErrInvalidState, share.ID)
		}
		if share.Amount.GreaterThan(e.Amount) {
			return fmt.Errorf("%w: share %s exceeds the expense amount", ErrInvalidState, share.ID)
		}
		sum = sum.Add(share.Amount)
	}
	if !sum.Equal(e.Amount) {
		return fmt.Errorf("%w: shares sum to %s, expense is %s",
			ErrShareSumMismatch, sum.String(), e.Amount.String())
	}

	return nil
}

// SplitEqually replaces the expense's shares with one share per debtor,
// dividing the amount cent-exactly. Remainder cents go to the first
// debtors, so the share sum always equals the expense amount.
func (e *Expense) SplitEqually(debtorIDs []uuid.UUID) error {
	if len(debtorIDs) == 0 {
		return ErrNoDebtors
	}
	seen := make(map[uuid.UUID]struct{}, len(debtorIDs))
	for _, id := range debtorIDs {
		if id == uuid.Nil {
			return ErrEmptyShareDebtorID
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate debtor %s", ErrValidation, id)
		}
		seen[id] = struct{}{}
	}

	parts, err := SplitAmount(e.Amount, len(debtorIDs))
	if err != nil {
		return err
	}

	shares := make([]ExpenseShare, len(debtorIDs))
	for i, debtorID := range debtorIDs {
		share, err := NewExpenseShare(e.ID, debtorID, parts[i])
		if err != nil {
			return err
		}
		shares[i] = *share
	}

	e.Shares = shares
	return e.Validate()
}

// SplitExplicit replaces the expense's shares with the given per-debtor
// amounts. Returns ErrShareSumMismatch unless the amounts sum exactly to
// the expense amount.
func (e *Expense) SplitExplicit(amounts map[uuid.UUID]decimal.Decimal) error {
	if len(amounts) == 0 {
		return ErrNoDebtors
	}

	shares := make([]ExpenseShare, 0, len(amounts))
	for debtorID, amount := range amounts {
		share, err := NewExpenseShare(e.ID, debtorID, amount)
		if err != nil {
			return err
		}
		shares = append(shares, *share)
	}

	e.Shares = shares
	return e.Validate()
}

// Equal reports record identity by assigned id.
func (e *Expense) Equal(other *Expense) bool {
	if other == nil || e.ID == uuid.Nil || other.ID == uuid.Nil {
		return false
	}
	return e.ID == other.ID
}
