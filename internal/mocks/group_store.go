package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/store"
)

// MockGroupStore implements store.GroupStore for testing. Membership is
// a single set keyed by (group id, user id), mirroring the join table.
type MockGroupStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, group *domain.Group) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	GetForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	UpdateFn       func(ctx context.Context, group *domain.Group) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	AddMemberFn    func(ctx context.Context, groupID, userID uuid.UUID) error
	RemoveMemberFn func(ctx context.Context, groupID, userID uuid.UUID) error

	// Data for default implementation
	Groups  map[uuid.UUID]*domain.Group
	Members map[uuid.UUID]map[uuid.UUID]struct{}

	// MemberOrder preserves insertion order per group so listings are
	// deterministic.
	MemberOrder map[uuid.UUID][]uuid.UUID
}

// NewMockGroupStore creates a new mock store with initialized defaults
func NewMockGroupStore() *MockGroupStore {
	return &MockGroupStore{
		Groups:      make(map[uuid.UUID]*domain.Group),
		Members:     make(map[uuid.UUID]map[uuid.UUID]struct{}),
		MemberOrder: make(map[uuid.UUID][]uuid.UUID),
	}
}

var _ store.GroupStore = (*MockGroupStore)(nil)

// Create implements the GroupStore interface
func (m *MockGroupStore) Create(ctx context.Context, group *domain.Group) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, group)
	}

	m.Groups[group.ID] = group
	m.Members[group.ID] = make(map[uuid.UUID]struct{})
	return nil
}

// GetByID implements the GroupStore interface
func (m *MockGroupStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	group, exists := m.Groups[id]
	if !exists {
		return nil, store.ErrGroupNotFound
	}
	return group, nil
}

// GetForUpdate implements the GroupStore interface
func (m *MockGroupStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// Update implements the GroupStore interface
func (m *MockGroupStore) Update(ctx context.Context, group *domain.Group) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, group)
	}

	if _, exists := m.Groups[group.ID]; !exists {
		return store.ErrGroupNotFound
	}
	m.Groups[group.ID] = group
	return nil
}

// Delete implements the GroupStore interface
func (m *MockGroupStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Groups[id]; !exists {
		return store.ErrGroupNotFound
	}
	delete(m.Groups, id)
	delete(m.Members, id)
	delete(m.MemberOrder, id)
	return nil
}

// AddMember implements the GroupStore interface
func (m *MockGroupStore) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, groupID, userID)
	}

	members, exists := m.Members[groupID]
	if !exists {
		return store.ErrIntegrityViolation
	}
	if _, already := members[userID]; already {
		return store.ErrMemberExists
	}

	members[userID] = struct{}{}
	m.MemberOrder[groupID] = append(m.MemberOrder[groupID], userID)
	return nil
}

// RemoveMember implements the GroupStore interface
func (m *MockGroupStore) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	if m.RemoveMemberFn != nil {
		return m.RemoveMemberFn(ctx, groupID, userID)
	}

	members, exists := m.Members[groupID]
	if !exists {
		return store.ErrMemberNotInGroup
	}
	if _, present := members[userID]; !present {
		return store.ErrMemberNotInGroup
	}

	delete(members, userID)
	m.MemberOrder[groupID] = removeID(m.MemberOrder[groupID], userID)
	return nil
}

// RemoveAllMembers implements the GroupStore interface
func (m *MockGroupStore) RemoveAllMembers(ctx context.Context, groupID uuid.UUID) (int, error) {
	members, exists := m.Members[groupID]
	if !exists {
		return 0, nil
	}

	removed := len(members)
	m.Members[groupID] = make(map[uuid.UUID]struct{})
	m.MemberOrder[groupID] = nil
	return removed, nil
}

// RemoveUserMemberships implements the GroupStore interface
func (m *MockGroupStore) RemoveUserMemberships(ctx context.Context, userID uuid.UUID) (int, error) {
	removed := 0
	for groupID, members := range m.Members {
		if _, present := members[userID]; present {
			delete(members, userID)
			m.MemberOrder[groupID] = removeID(m.MemberOrder[groupID], userID)
			removed++
		}
	}
	return removed, nil
}

// IsMember implements the GroupStore interface
func (m *MockGroupStore) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	members, exists := m.Members[groupID]
	if !exists {
		return false, nil
	}
	_, present := members[userID]
	return present, nil
}

// ListMemberIDs implements the GroupStore interface
func (m *MockGroupStore) ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	if _, exists := m.Groups[groupID]; !exists {
		return nil, store.ErrGroupNotFound
	}

	ids := make([]uuid.UUID, len(m.MemberOrder[groupID]))
	copy(ids, m.MemberOrder[groupID])
	return ids, nil
}

// ListForUser implements the GroupStore interface
func (m *MockGroupStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Group, error) {
	var groups []*domain.Group
	for groupID, members := range m.Members {
		if _, present := members[userID]; present {
			groups = append(groups, m.Groups[groupID])
		}
	}
	return groups, nil
}

// ListOwnedBy implements the GroupStore interface
func (m *MockGroupStore) ListOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]*domain.Group, error) {
	var groups []*domain.Group
	for _, group := range m.Groups {
		if group.OwnedBy(ownerID) {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// WithTx implements the GroupStore interface. The mock has no
// transactional state, so it returns itself.
func (m *MockGroupStore) WithTx(tx *sql.Tx) store.GroupStore {
	return m
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
