package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/platform/logger"
	"github.com/phrazzld/splitledger/internal/store"
)

// PostgresGroupStore implements the store.GroupStore interface using a
// PostgreSQL database as the storage backend.
type PostgresGroupStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGroupStore creates a new PostgreSQL implementation of the
// GroupStore interface.
func NewPostgresGroupStore(db store.DBTX, logger *slog.Logger) *PostgresGroupStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGroupStore{
		db:     db,
		logger: logger.With(slog.String("component", "group_store")),
	}
}

// Ensure PostgresGroupStore implements store.GroupStore
var _ store.GroupStore = (*PostgresGroupStore)(nil)

// WithTx implements store.GroupStore.WithTx
func (s *PostgresGroupStore) WithTx(tx *sql.Tx) store.GroupStore {
	return &PostgresGroupStore{db: tx, logger: s.logger}
}

// Create implements store.GroupStore.Create
func (s *PostgresGroupStore) Create(ctx context.Context, group *domain.Group) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := group.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO groups (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		group.ID, group.Name, group.OwnerID, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		log.Error("failed to create group",
			slog.String("error", err.Error()),
			slog.String("group_id", group.ID.String()))
		return mapError(err, store.ErrGroupNotFound)
	}

	log.Debug("group created", slog.String("group_id", group.ID.String()))
	return nil
}

// GetByID implements store.GroupStore.GetByID
func (s *PostgresGroupStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM groups
		WHERE id = $1
	`
	return scanGroup(s.db.QueryRowContext(ctx, query, id))
}

// GetForUpdate implements store.GroupStore.GetForUpdate
func (s *PostgresGroupStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM groups
		WHERE id = $1
		FOR UPDATE
	`
	return scanGroup(s.db.QueryRowContext(ctx, query, id))
}

// Update implements store.GroupStore.Update
func (s *PostgresGroupStore) Update(ctx context.Context, group *domain.Group) error {
	if err := group.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE groups
		SET name = $2, owner_id = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		group.ID, group.Name, group.OwnerID, group.UpdatedAt)
	if err != nil {
		return mapError(err, store.ErrGroupNotFound)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrGroupNotFound
	}
	return nil
}

// Delete implements store.GroupStore.Delete
func (s *PostgresGroupStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete group",
			slog.String("error", err.Error()),
			slog.String("group_id", id.String()))
		return mapError(err, store.ErrGroupNotFound)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrGroupNotFound
	}
	return nil
}

// AddMember implements store.GroupStore.AddMember
func (s *PostgresGroupStore) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
	`
	_, err := s.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrMemberExists
		}
		return mapError(err, store.ErrGroupNotFound)
	}
	return nil
}

// RemoveMember implements store.GroupStore.RemoveMember
func (s *PostgresGroupStore) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`
	result, err := s.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return mapError(err, store.ErrGroupNotFound)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrMemberNotInGroup
	}
	return nil
}

// RemoveAllMembers implements store.GroupStore.RemoveAllMembers
func (s *PostgresGroupStore) RemoveAllMembers(ctx context.Context, groupID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, mapError(err, store.ErrGroupNotFound)
	}
	rows, err := result.RowsAffected()
	return int(rows), err
}

// RemoveUserMemberships implements store.GroupStore.RemoveUserMemberships
func (s *PostgresGroupStore) RemoveUserMemberships(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE user_id = $1`, userID)
	if err != nil {
		return 0, mapError(err, store.ErrUserNotFound)
	}
	rows, err := result.RowsAffected()
	return int(rows), err
}

// IsMember implements store.GroupStore.IsMember
func (s *PostgresGroupStore) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM group_members
			WHERE group_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists); err != nil {
		return false, mapError(err, store.ErrGroupNotFound)
	}
	return exists, nil
}

// ListMemberIDs implements store.GroupStore.ListMemberIDs
func (s *PostgresGroupStore) ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id`, groupID)
	if err != nil {
		return nil, mapError(err, store.ErrGroupNotFound)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListForUser implements store.GroupStore.ListForUser
func (s *PostgresGroupStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Group, error) {
	query := `
		SELECT g.id, g.name, g.owner_id, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.created_at
	`
	return s.queryGroups(ctx, query, userID)
}

// ListOwnedBy implements store.GroupStore.ListOwnedBy
func (s *PostgresGroupStore) ListOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]*domain.Group, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM groups
		WHERE owner_id = $1
		ORDER BY created_at
	`
	return s.queryGroups(ctx, query, ownerID)
}

func (s *PostgresGroupStore) queryGroups(ctx context.Context, query string, args ...any) ([]*domain.Group, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrGroupNotFound)
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		var group domain.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.OwnerID,
			&group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}
	return groups, rows.Err()
}

func scanGroup(row *sql.Row) (*domain.Group, error) {
	var group domain.Group
	err := row.Scan(&group.ID, &group.Name, &group.OwnerID,
		&group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGroupNotFound
		}
		return nil, mapError(err, store.ErrGroupNotFound)
	}
	return &group, nil
}
