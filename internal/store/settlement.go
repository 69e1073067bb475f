package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
)

// SettlementStore defines the interface for settlement persistence.
type SettlementStore interface {
	// Create saves a new settlement.
	// Returns ErrIntegrityViolation if an endpoint user or the scoping
	// group does not exist.
	Create(ctx context.Context, settlement *domain.Settlement) error

	// GetByID retrieves a settlement by its unique ID.
	// Returns ErrSettlementNotFound if the settlement does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)

	// Delete removes a settlement by ID.
	// Returns ErrSettlementNotFound if the settlement does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForUser removes every settlement the user sent or received,
	// returning the number removed. Used by cascade deletes.
	DeleteForUser(ctx context.Context, userID uuid.UUID) (int, error)

	// DetachGroup clears the group scope from every settlement scoped to
	// the group, returning the number detached. Used when a group is
	// deleted: the payments happened and remain part of global balances.
	DetachGroup(ctx context.Context, groupID uuid.UUID) (int, error)

	// ListForUser returns the settlements the user sent or received.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Settlement, error)

	// ListByGroup returns the settlements scoped to the group.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.Settlement, error)

	// WithTx returns a SettlementStore that executes against the provided
	// transaction.
	WithTx(tx *sql.Tx) SettlementStore
}
