package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewSettlement(t *testing.T) {
	from := uuid.New()
	to := uuid.New()
	group := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	settlement, err := NewSettlement(from, to, group, decimal.RequireFromString("30.00"), "dinner payback")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if settlement.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if !settlement.InGroup(group.UUID) {
		t.Error("Expected settlement to be scoped to its group")
	}
	if settlement.InGroup(uuid.New()) {
		t.Error("Settlement must not match a different group")
	}

	cases := []struct {
		name    string
		from    uuid.UUID
		to      uuid.UUID
		amount  string
		wantErr error
	}{
		{"empty payer", uuid.Nil, to, "10.00", ErrEmptySettlementFrom},
		{"empty payee", from, uuid.Nil, "10.00", ErrEmptySettlementTo},
		{"self settlement", from, from, "10.00", ErrSelfSettlement},
		{"zero amount", from, to, "0", ErrNonPositiveAmount},
		{"sub-cent amount", from, to, "10.005", ErrPrecision},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSettlement(tc.from, tc.to, uuid.NullUUID{}, decimal.RequireFromString(tc.amount), "")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSettlementSelfPaymentIsInvalidState(t *testing.T) {
	u := uuid.New()
	_, err := NewSettlement(u, u, uuid.NullUUID{}, decimal.RequireFromString("5.00"), "")
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Self settlement must be a business-rule violation, got %v", err)
	}
}

func TestSettlementUnscoped(t *testing.T) {
	settlement, err := NewSettlement(uuid.New(), uuid.New(), uuid.NullUUID{}, decimal.RequireFromString("1.00"), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if settlement.GroupID.Valid {
		t.Error("Expected unscoped settlement")
	}
	if settlement.InGroup(uuid.New()) {
		t.Error("Unscoped settlement never matches a group")
	}
}
