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

// RecordSettlementInput describes a direct payment between two users.
// GroupID is optional; when set the settlement is scoped to that group
// and both parties must be members of it.
type RecordSettlementInput struct {
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	GroupID    uuid.NullUUID
	Amount     decimal.Decimal
	Note       string
}

// SettlementService records and removes settlements between users.
type SettlementService interface {
	// RecordSettlement records a payment from one user to another. Both
	// users must exist; for a group-scoped settlement both must be
	// members of the group.
	RecordSettlement(ctx context.Context, input RecordSettlementInput) (*domain.Settlement, error)

	// GetSettlement retrieves a settlement by its ID.
	GetSettlement(ctx context.Context, settlementID uuid.UUID) (*domain.Settlement, error)

	// DeleteSettlement deletes a settlement. Both users survive.
	DeleteSettlement(ctx context.Context, settlementID uuid.UUID) error

	// ListSettlementsForUser returns every settlement the user paid or
	// received.
	ListSettlementsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Settlement, error)
}

// SettlementServiceImpl implements the SettlementService interface.
type SettlementServiceImpl struct {
	userStore       store.UserStore
	groupStore      store.GroupStore
	settlementStore store.SettlementStore
	runner          store.TxRunner
	logger          *slog.Logger
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	userStore store.UserStore,
	groupStore store.GroupStore,
	settlementStore store.SettlementStore,
	runner store.TxRunner,
	logger *slog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		userStore:       userStore,
		groupStore:      groupStore,
		settlementStore: settlementStore,
		runner:          runner,
		logger:          logger.With("component", "settlement_service"),
	}
}

var _ SettlementService = (*SettlementServiceImpl)(nil)

// RecordSettlement implements SettlementService.RecordSettlement.
func (s *SettlementServiceImpl) RecordSettlement(ctx context.Context, input RecordSettlementInput) (*domain.Settlement, error) {
	settlement, err := domain.NewSettlement(input.FromUserID, input.ToUserID, input.GroupID, input.Amount, input.Note)
	if err != nil {
		return nil, err
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		groups := s.groupStore.WithTx(tx)
		settlements := s.settlementStore.WithTx(tx)

		if _, err := users.GetByID(ctx, input.FromUserID); err != nil {
			return err
		}
		if _, err := users.GetByID(ctx, input.ToUserID); err != nil {
			return err
		}

		if input.GroupID.Valid {
			if _, err := groups.GetByID(ctx, input.GroupID.UUID); err != nil {
				return err
			}
			for _, userID := range []uuid.UUID{input.FromUserID, input.ToUserID} {
				isMember, err := groups.IsMember(ctx, input.GroupID.UUID, userID)
				if err != nil {
					return err
				}
				if !isMember {
					return fmt.Errorf("%w: user %s not in group %s",
						ErrSettlementPartyNotMember, userID, input.GroupID.UUID)
				}
			}
		}

		return settlements.Create(ctx, settlement)
	})
	if err != nil {
		s.logger.Error("failed to record settlement", "error", err,
			"from_user_id", input.FromUserID, "to_user_id", input.ToUserID)
		return nil, err
	}

	s.logger.Info("settlement recorded", "settlement_id", settlement.ID,
		"from_user_id", settlement.FromUserID, "to_user_id", settlement.ToUserID,
		"amount", settlement.Amount.String())
	return settlement, nil
}

// GetSettlement implements SettlementService.GetSettlement.
func (s *SettlementServiceImpl) GetSettlement(ctx context.Context, settlementID uuid.UUID) (*domain.Settlement, error) {
	return s.settlementStore.GetByID(ctx, settlementID)
}

// DeleteSettlement implements SettlementService.DeleteSettlement.
func (s *SettlementServiceImpl) DeleteSettlement(ctx context.Context, settlementID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		settlements := s.settlementStore.WithTx(tx)

		if _, err := settlements.GetByID(ctx, settlementID); err != nil {
			return err
		}
		return settlements.Delete(ctx, settlementID)
	})
	if err != nil {
		s.logger.Error("failed to delete settlement", "error", err,
			"settlement_id", settlementID)
		return err
	}

	s.logger.Info("settlement deleted", "settlement_id", settlementID)
	return nil
}

// ListSettlementsForUser implements SettlementService.ListSettlementsForUser.
func (s *SettlementServiceImpl) ListSettlementsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Settlement, error) {
	return s.settlementStore.ListForUser(ctx, userID)
}
