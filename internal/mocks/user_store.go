package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, user *domain.User) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn   func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn       func(ctx context.Context, user *domain.User) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by user ID
	Users map[uuid.UUID]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[uuid.UUID]*domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	for _, existing := range m.Users {
		if existing.Email != "" && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	user, exists := m.Users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetForUpdate implements the UserStore interface
func (m *MockUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	for _, user := range m.Users {
		if user.Email != "" && user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	if _, exists := m.Users[user.ID]; !exists {
		return store.ErrUserNotFound
	}
	for id, existing := range m.Users {
		if id != user.ID && existing.Email != "" && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	m.Users[user.ID] = user
	return nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Users[id]; !exists {
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	return nil
}

// WithTx implements the UserStore interface. The mock has no
// transactional state, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
