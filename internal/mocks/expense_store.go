package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/store"
)

// MockExpenseStore implements store.ExpenseStore for testing. Shares
// live inside their expense, matching the exclusive-ownership rule.
type MockExpenseStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, expense *domain.Expense) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
	DeleteShareFn func(ctx context.Context, shareID uuid.UUID) error

	// Data for default implementation
	Expenses map[uuid.UUID]*domain.Expense
}

// NewMockExpenseStore creates a new mock store with initialized defaults
func NewMockExpenseStore() *MockExpenseStore {
	return &MockExpenseStore{
		Expenses: make(map[uuid.UUID]*domain.Expense),
	}
}

var _ store.ExpenseStore = (*MockExpenseStore)(nil)

// Create implements the ExpenseStore interface
func (m *MockExpenseStore) Create(ctx context.Context, expense *domain.Expense) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, expense)
	}

	m.Expenses[expense.ID] = expense
	return nil
}

// GetByID implements the ExpenseStore interface
func (m *MockExpenseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	expense, exists := m.Expenses[id]
	if !exists {
		return nil, store.ErrExpenseNotFound
	}
	return expense, nil
}

// Delete implements the ExpenseStore interface
func (m *MockExpenseStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Expenses[id]; !exists {
		return store.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// GetShare implements the ExpenseStore interface
func (m *MockExpenseStore) GetShare(ctx context.Context, shareID uuid.UUID) (*domain.ExpenseShare, error) {
	for _, expense := range m.Expenses {
		for i := range expense.Shares {
			if expense.Shares[i].ID == shareID {
				return &expense.Shares[i], nil
			}
		}
	}
	return nil, store.ErrShareNotFound
}

// DeleteShare implements the ExpenseStore interface
func (m *MockExpenseStore) DeleteShare(ctx context.Context, shareID uuid.UUID) error {
	if m.DeleteShareFn != nil {
		return m.DeleteShareFn(ctx, shareID)
	}

	for _, expense := range m.Expenses {
		for i := range expense.Shares {
			if expense.Shares[i].ID == shareID {
				expense.Shares = append(expense.Shares[:i], expense.Shares[i+1:]...)
				return nil
			}
		}
	}
	return store.ErrShareNotFound
}

// DeleteSharesByDebtor implements the ExpenseStore interface
func (m *MockExpenseStore) DeleteSharesByDebtor(ctx context.Context, debtorID uuid.UUID) (int, error) {
	removed := 0
	for _, expense := range m.Expenses {
		kept := expense.Shares[:0]
		for _, share := range expense.Shares {
			if share.DebtorID == debtorID {
				removed++
				continue
			}
			kept = append(kept, share)
		}
		expense.Shares = kept
	}
	return removed, nil
}

// ListByGroup implements the ExpenseStore interface
func (m *MockExpenseStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for _, expense := range m.Expenses {
		if expense.GroupID == groupID {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

// ListByPayer implements the ExpenseStore interface
func (m *MockExpenseStore) ListByPayer(ctx context.Context, payerID uuid.UUID) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for _, expense := range m.Expenses {
		if expense.PayerID == payerID {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

// ListSharesByDebtor implements the ExpenseStore interface
func (m *MockExpenseStore) ListSharesByDebtor(ctx context.Context, debtorID uuid.UUID) ([]*domain.ExpenseShare, error) {
	var shares []*domain.ExpenseShare
	for _, expense := range m.Expenses {
		for i := range expense.Shares {
			if expense.Shares[i].DebtorID == debtorID {
				shares = append(shares, &expense.Shares[i])
			}
		}
	}
	return shares, nil
}

// WithTx implements the ExpenseStore interface. The mock has no
// transactional state, so it returns itself.
func (m *MockExpenseStore) WithTx(tx *sql.Tx) store.ExpenseStore {
	return m
}
