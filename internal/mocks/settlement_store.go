package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/store"
)

// MockSettlementStore implements store.SettlementStore for testing
type MockSettlementStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, settlement *domain.Settlement) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)
	DeleteFn  func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	Settlements map[uuid.UUID]*domain.Settlement
}

// NewMockSettlementStore creates a new mock store with initialized defaults
func NewMockSettlementStore() *MockSettlementStore {
	return &MockSettlementStore{
		Settlements: make(map[uuid.UUID]*domain.Settlement),
	}
}

var _ store.SettlementStore = (*MockSettlementStore)(nil)

// Create implements the SettlementStore interface
func (m *MockSettlementStore) Create(ctx context.Context, settlement *domain.Settlement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, settlement)
	}

	m.Settlements[settlement.ID] = settlement
	return nil
}

// GetByID implements the SettlementStore interface
func (m *MockSettlementStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	settlement, exists := m.Settlements[id]
	if !exists {
		return nil, store.ErrSettlementNotFound
	}
	return settlement, nil
}

// Delete implements the SettlementStore interface
func (m *MockSettlementStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Settlements[id]; !exists {
		return store.ErrSettlementNotFound
	}
	delete(m.Settlements, id)
	return nil
}

// DeleteForUser implements the SettlementStore interface
func (m *MockSettlementStore) DeleteForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	removed := 0
	for id, settlement := range m.Settlements {
		if settlement.FromUserID == userID || settlement.ToUserID == userID {
			delete(m.Settlements, id)
			removed++
		}
	}
	return removed, nil
}

// DetachGroup implements the SettlementStore interface
func (m *MockSettlementStore) DetachGroup(ctx context.Context, groupID uuid.UUID) (int, error) {
	detached := 0
	for _, settlement := range m.Settlements {
		if settlement.InGroup(groupID) {
			settlement.GroupID = uuid.NullUUID{}
			detached++
		}
	}
	return detached, nil
}

// ListForUser implements the SettlementStore interface
func (m *MockSettlementStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Settlement, error) {
	var settlements []*domain.Settlement
	for _, settlement := range m.Settlements {
		if settlement.FromUserID == userID || settlement.ToUserID == userID {
			settlements = append(settlements, settlement)
		}
	}
	return settlements, nil
}

// ListByGroup implements the SettlementStore interface
func (m *MockSettlementStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.Settlement, error) {
	var settlements []*domain.Settlement
	for _, settlement := range m.Settlements {
		if settlement.InGroup(groupID) {
			settlements = append(settlements, settlement)
		}
	}
	return settlements, nil
}

// WithTx implements the SettlementStore interface. The mock has no
// transactional state, so it returns itself.
func (m *MockSettlementStore) WithTx(tx *sql.Tx) store.SettlementStore {
	return m
}
