package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
)

// GroupStore defines the interface for group and membership persistence.
// Membership is a single relation keyed by (group id, user id); the
// forward reference (group's members) and the back reference (user's
// groups) are both views of that relation.
type GroupStore interface {
	// Create saves a new group to the store.
	// Returns ErrIntegrityViolation if the owner does not exist.
	Create(ctx context.Context, group *domain.Group) error

	// GetByID retrieves a group by its unique ID.
	// Returns ErrGroupNotFound if the group does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)

	// GetForUpdate retrieves a group and, inside a transaction, locks the
	// row so concurrent edits to the same group are serialized.
	// Returns ErrGroupNotFound or ErrConcurrentModification.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Group, error)

	// Update modifies an existing group (name, owner).
	// Returns ErrGroupNotFound if the group does not exist.
	Update(ctx context.Context, group *domain.Group) error

	// Delete removes a group row by ID. Memberships for the group must be
	// removed first; expenses scoped to the group must be deleted first.
	// Returns ErrGroupNotFound if the group does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddMember inserts the membership link between group and user.
	// Returns ErrMemberExists if the link already exists and
	// ErrIntegrityViolation if either side does not exist.
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error

	// RemoveMember removes the membership link between group and user.
	// Returns ErrMemberNotInGroup if the link does not exist.
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error

	// RemoveAllMembers removes every membership link of the group,
	// returning the number of links removed. Used by cascade deletes.
	RemoveAllMembers(ctx context.Context, groupID uuid.UUID) (int, error)

	// RemoveUserMemberships removes the user from every group they belong
	// to, returning the number of links removed. Used by cascade deletes.
	RemoveUserMemberships(ctx context.Context, userID uuid.UUID) (int, error)

	// IsMember reports whether the membership link exists.
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)

	// ListMemberIDs returns the ids of the group's members.
	// Returns ErrGroupNotFound if the group does not exist.
	ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)

	// ListForUser returns the groups the user is a member of.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Group, error)

	// ListOwnedBy returns the groups whose owner is the given user.
	ListOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]*domain.Group, error)

	// WithTx returns a GroupStore that executes against the provided
	// transaction.
	WithTx(tx *sql.Tx) GroupStore
}
