package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common validation errors for Settlement.
var (
	ErrEmptySettlementID   = errors.New("settlement ID cannot be empty")
	ErrEmptySettlementFrom = errors.New("settlement payer ID cannot be empty")
	ErrEmptySettlementTo   = errors.New("settlement payee ID cannot be empty")

	// ErrSelfSettlement is returned when a settlement's payer and payee
	// are the same user.
	ErrSelfSettlement = fmt.Errorf("%w: settlement payer and payee must differ", ErrInvalidState)
)

// Settlement is a direct payment from one user to another that reduces
// outstanding debt between them.
//
// A settlement may optionally be scoped to a group. A group-scoped
// settlement counts toward that group's balances as well as global
// balances; an unscoped settlement applies globally only.
type Settlement struct {
	ID         uuid.UUID       `json:"id"`
	FromUserID uuid.UUID       `json:"from_user_id"`
	ToUserID   uuid.UUID       `json:"to_user_id"`
	GroupID    uuid.NullUUID   `json:"group_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewSettlement creates a settlement of amount paid by fromUserID to
// toUserID, optionally scoped to a group. The amount must be positive and
// cent-exact; payer and payee must differ.
func NewSettlement(fromUserID, toUserID uuid.UUID, groupID uuid.NullUUID, amount decimal.Decimal, note string) (*Settlement, error) {
	settlement := &Settlement{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		GroupID:    groupID,
		Amount:     amount,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}

	if err := settlement.Validate(); err != nil {
		return nil, err
	}

	return settlement, nil
}

// Validate checks if the Settlement has valid data.
func (s *Settlement) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySettlementID
	}
	if s.FromUserID == uuid.Nil {
		return ErrEmptySettlementFrom
	}
	if s.ToUserID == uuid.Nil {
		return ErrEmptySettlementTo
	}
	if s.FromUserID == s.ToUserID {
		return ErrSelfSettlement
	}
	if !s.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrNonPositiveAmount, s.Amount.String())
	}
	return CheckPrecision(s.Amount)
}

// InGroup reports whether the settlement is scoped to the given group.
func (s *Settlement) InGroup(groupID uuid.UUID) bool {
	return s.GroupID.Valid && s.GroupID.UUID == groupID
}

// Equal reports record identity by assigned id.
func (s *Settlement) Equal(other *Settlement) bool {
	if other == nil || s.ID == uuid.Nil || other.ID == uuid.Nil {
		return false
	}
	return s.ID == other.ID
}
