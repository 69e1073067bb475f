package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Group.
var (
	ErrEmptyGroupID   = errors.New("group ID cannot be empty")
	ErrEmptyGroupName = errors.New("group name cannot be empty")
	ErrGroupNoOwner   = errors.New("group must have exactly one owner")
)

// Group is a named collection of members that scopes expenses and
// settlements. A group is created with exactly one owner; the owner is a
// single-valued field, so two simultaneous owners are not representable.
// The owner may later be cleared, leaving the group to its members.
// Membership is stored as a relation keyed by (group id, user id).
type Group struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	// OwnerID is the lifecycle owner of the group. Deleting the owner
	// deletes the group and everything cascading from it. Invalid after
	// the owner has been removed.
	OwnerID uuid.NullUUID `json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGroup creates a group owned by the given user. It generates a random
// UUID for the group ID and sets the creation/update timestamps.
// Returns ErrGroupNoOwner if ownerID is empty.
func NewGroup(name string, ownerID uuid.UUID) (*Group, error) {
	if ownerID == uuid.Nil {
		return nil, ErrGroupNoOwner
	}

	group := &Group{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   uuid.NullUUID{UUID: ownerID, Valid: true},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := group.Validate(); err != nil {
		return nil, err
	}

	return group, nil
}

// Validate checks if the Group has valid data.
// Returns an error if any field fails validation.
func (g *Group) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyGroupID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGroupName
	}
	return nil
}

// Owned reports whether the group currently has an owner.
func (g *Group) Owned() bool {
	return g.OwnerID.Valid
}

// OwnedBy reports whether userID is the group's current owner.
func (g *Group) OwnedBy(userID uuid.UUID) bool {
	return g.OwnerID.Valid && g.OwnerID.UUID == userID
}

// Equal reports record identity by assigned id, mirroring User.Equal.
func (g *Group) Equal(other *Group) bool {
	if other == nil || g.ID == uuid.Nil || other.ID == uuid.Nil {
		return false
	}
	return g.ID == other.ID
}
