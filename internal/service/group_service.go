package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/store"
)

// GroupService provides group lifecycle and membership operations. All
// membership mutations are paired: a user appears in a group's member
// view exactly when the group appears in the user's group view.
type GroupService interface {
	// CreateGroup creates a group owned by ownerID. The owner becomes a
	// member; memberIDs are added as further members (duplicates and the
	// owner id are tolerated in the list).
	CreateGroup(ctx context.Context, name string, ownerID uuid.UUID, memberIDs []uuid.UUID) (*domain.Group, error)

	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID uuid.UUID) (*domain.Group, error)

	// AddMember adds the user to the group.
	// Returns store.ErrMemberExists if already a member.
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error

	// RemoveMember removes the user from the group. The user record
	// itself survives.
	// Returns store.ErrMemberNotInGroup if not a member.
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error

	// TransferOwnership makes newOwnerID the group's owner.
	TransferOwnership(ctx context.Context, groupID, newOwnerID uuid.UUID) error

	// RemoveOwner clears the group's owner. The group survives for its
	// members but is no longer lifecycle-bound to any user.
	RemoveOwner(ctx context.Context, groupID uuid.UUID) error

	// ListMembers returns the group's members.
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*domain.User, error)

	// ListGroupsForUser returns the groups the user belongs to.
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Group, error)

	// DeleteGroup deletes the group, its expenses and their shares, and
	// its membership links, in one transaction. Members survive;
	// settlements scoped to the group are detached, not deleted.
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error
}

// GroupServiceImpl implements the GroupService interface.
type GroupServiceImpl struct {
	userStore       store.UserStore
	groupStore      store.GroupStore
	expenseStore    store.ExpenseStore
	settlementStore store.SettlementStore
	runner          store.TxRunner
	logger          *slog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(
	userStore store.UserStore,
	groupStore store.GroupStore,
	expenseStore store.ExpenseStore,
	settlementStore store.SettlementStore,
	runner store.TxRunner,
	logger *slog.Logger,
) *GroupServiceImpl {
	return &GroupServiceImpl{
		userStore:       userStore,
		groupStore:      groupStore,
		expenseStore:    expenseStore,
		settlementStore: settlementStore,
		runner:          runner,
		logger:          logger.With("component", "group_service"),
	}
}

var _ GroupService = (*GroupServiceImpl)(nil)

// CreateGroup implements GroupService.CreateGroup.
func (s *GroupServiceImpl) CreateGroup(ctx context.Context, name string, ownerID uuid.UUID, memberIDs []uuid.UUID) (*domain.Group, error) {
	group, err := domain.NewGroup(name, ownerID)
	if err != nil {
		return nil, err
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		groups := s.groupStore.WithTx(tx)

		if _, err := users.GetByID(ctx, ownerID); err != nil {
			return err
		}
		if err := groups.Create(ctx, group); err != nil {
			return err
		}

		members := make([]uuid.UUID, 0, len(memberIDs)+1)
		members = append(members, ownerID)
		seen := map[uuid.UUID]struct{}{ownerID: {}}
		for _, id := range memberIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			members = append(members, id)
		}

		for _, id := range members {
			if _, err := users.GetByID(ctx, id); err != nil {
				return err
			}
			if err := groups.AddMember(ctx, group.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create group", "error", err, "name", name)
		return nil, err
	}

	s.logger.Info("group created", "group_id", group.ID, "owner_id", ownerID)
	return group, nil
}

// GetGroup implements GroupService.GetGroup.
func (s *GroupServiceImpl) GetGroup(ctx context.Context, groupID uuid.UUID) (*domain.Group, error) {
	return s.groupStore.GetByID(ctx, groupID)
}

// AddMember implements GroupService.AddMember.
func (s *GroupServiceImpl) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := s.groupStore.WithTx(tx)
		users := s.userStore.WithTx(tx)

		if _, err := groups.GetForUpdate(ctx, groupID); err != nil {
			return err
		}
		if _, err := users.GetByID(ctx, userID); err != nil {
			return err
		}
		return groups.AddMember(ctx, groupID, userID)
	})
	if err != nil {
		s.logger.Error("failed to add member", "error", err,
			"group_id", groupID, "user_id", userID)
		return err
	}

	s.logger.Info("member added", "group_id", groupID, "user_id", userID)
	return nil
}

// RemoveMember implements GroupService.RemoveMember.
func (s *GroupServiceImpl) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := s.groupStore.WithTx(tx)

		if _, err := groups.GetForUpdate(ctx, groupID); err != nil {
			return err
		}
		return groups.RemoveMember(ctx, groupID, userID)
	})
	if err != nil {
		s.logger.Error("failed to remove member", "error", err,
			"group_id", groupID, "user_id", userID)
		return err
	}

	s.logger.Info("member removed", "group_id", groupID, "user_id", userID)
	return nil
}

// TransferOwnership implements GroupService.TransferOwnership.
func (s *GroupServiceImpl) TransferOwnership(ctx context.Context, groupID, newOwnerID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := s.groupStore.WithTx(tx)
		users := s.userStore.WithTx(tx)

		group, err := groups.GetForUpdate(ctx, groupID)
		if err != nil {
			return err
		}
		if _, err := users.GetByID(ctx, newOwnerID); err != nil {
			return err
		}

		group.OwnerID = uuid.NullUUID{UUID: newOwnerID, Valid: true}
		group.UpdatedAt = time.Now().UTC()
		return groups.Update(ctx, group)
	})
	if err != nil {
		s.logger.Error("failed to transfer ownership", "error", err,
			"group_id", groupID, "new_owner_id", newOwnerID)
		return err
	}

	s.logger.Info("ownership transferred", "group_id", groupID, "new_owner_id", newOwnerID)
	return nil
}

// RemoveOwner implements GroupService.RemoveOwner.
func (s *GroupServiceImpl) RemoveOwner(ctx context.Context, groupID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := s.groupStore.WithTx(tx)

		group, err := groups.GetForUpdate(ctx, groupID)
		if err != nil {
			return err
		}
		group.OwnerID = uuid.NullUUID{}
		group.UpdatedAt = time.Now().UTC()
		return groups.Update(ctx, group)
	})
	if err != nil {
		s.logger.Error("failed to remove owner", "error", err, "group_id", groupID)
		return err
	}

	s.logger.Info("owner removed", "group_id", groupID)
	return nil
}

// ListMembers implements GroupService.ListMembers.
func (s *GroupServiceImpl) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*domain.User, error) {
	ids, err := s.groupStore.ListMemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.userStore.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load member %s: %w", id, err)
		}
		members = append(members, user)
	}
	return members, nil
}

// ListGroupsForUser implements GroupService.ListGroupsForUser.
func (s *GroupServiceImpl) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Group, error) {
	return s.groupStore.ListForUser(ctx, userID)
}

// DeleteGroup implements GroupService.DeleteGroup.
func (s *GroupServiceImpl) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := s.groupStore.WithTx(tx)
		expenses := s.expenseStore.WithTx(tx)
		settlements := s.settlementStore.WithTx(tx)

		if _, err := groups.GetForUpdate(ctx, groupID); err != nil {
			return err
		}
		return deleteGroupCascade(ctx, s.logger, groups, expenses, settlements, groupID)
	})
	if err != nil {
		s.logger.Error("failed to delete group", "error", err, "group_id", groupID)
		return err
	}

	s.logger.Info("group deleted", "group_id", groupID)
	return nil
}
