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

// PostgresSettlementStore implements the store.SettlementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSettlementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettlementStore creates a new PostgreSQL implementation of
// the SettlementStore interface.
func NewPostgresSettlementStore(db store.DBTX, logger *slog.Logger) *PostgresSettlementStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSettlementStore{
		db:     db,
		logger: logger.With(slog.String("component", "settlement_store")),
	}
}

// Ensure PostgresSettlementStore implements store.SettlementStore
var _ store.SettlementStore = (*PostgresSettlementStore)(nil)

// WithTx implements store.SettlementStore.WithTx
func (s *PostgresSettlementStore) WithTx(tx *sql.Tx) store.SettlementStore {
	return &PostgresSettlementStore{db: tx, logger: s.logger}
}

// Create implements store.SettlementStore.Create
func (s *PostgresSettlementStore) Create(ctx context.Context, settlement *domain.Settlement) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settlement.Validate(); err != nil {
		log.Warn("settlement validation failed during create",
			slog.String("error", err.Error()),
			slog.String("settlement_id", settlement.ID.String()))
		return err
	}

	query := `
		INSERT INTO settlements (id, from_user_id, to_user_id, group_id, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		settlement.ID, settlement.FromUserID, settlement.ToUserID,
		settlement.GroupID, settlement.Amount, settlement.Note, settlement.CreatedAt)
	if err != nil {
		log.Error("failed to create settlement",
			slog.String("error", err.Error()),
			slog.String("settlement_id", settlement.ID.String()))
		return mapError(err, store.ErrSettlementNotFound)
	}

	log.Debug("settlement created",
		slog.String("settlement_id", settlement.ID.String()))
	return nil
}

// GetByID implements store.SettlementStore.GetByID
func (s *PostgresSettlementStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	query := `
		SELECT id, from_user_id, to_user_id, group_id, amount, note, created_at
		FROM settlements
		WHERE id = $1
	`
	var settlement domain.Settlement
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&settlement.ID, &settlement.FromUserID, &settlement.ToUserID,
		&settlement.GroupID, &settlement.Amount, &settlement.Note, &settlement.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettlementNotFound
		}
		return nil, mapError(err, store.ErrSettlementNotFound)
	}
	return &settlement, nil
}

// Delete implements store.SettlementStore.Delete
func (s *PostgresSettlementStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM settlements WHERE id = $1`, id)
	if err != nil {
		return mapError(err, store.ErrSettlementNotFound)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrSettlementNotFound
	}
	return nil
}

// DeleteForUser implements store.SettlementStore.DeleteForUser
func (s *PostgresSettlementStore) DeleteForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM settlements WHERE from_user_id = $1 OR to_user_id = $1`, userID)
	if err != nil {
		return 0, mapError(err, store.ErrSettlementNotFound)
	}
	rows, err := result.RowsAffected()
	return int(rows), err
}

// DetachGroup implements store.SettlementStore.DetachGroup
func (s *PostgresSettlementStore) DetachGroup(ctx context.Context, groupID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE settlements SET group_id = NULL WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, mapError(err, store.ErrSettlementNotFound)
	}
	rows, err := result.RowsAffected()
	return int(rows), err
}

// ListForUser implements store.SettlementStore.ListForUser
func (s *PostgresSettlementStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Settlement, error) {
	query := `
		SELECT id, from_user_id, to_user_id, group_id, amount, note, created_at
		FROM settlements
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at
	`
	return s.querySettlements(ctx, query, userID)
}

// ListByGroup implements store.SettlementStore.ListByGroup
func (s *PostgresSettlementStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.Settlement, error) {
	query := `
		SELECT id, from_user_id, to_user_id, group_id, amount, note, created_at
		FROM settlements
		WHERE group_id = $1
		ORDER BY created_at
	`
	return s.querySettlements(ctx, query, groupID)
}

func (s *PostgresSettlementStore) querySettlements(ctx context.Context, query string, args ...any) ([]*domain.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, store.ErrSettlementNotFound)
	}
	defer rows.Close()

	var settlements []*domain.Settlement
	for rows.Next() {
		var settlement domain.Settlement
		if err := rows.Scan(&settlement.ID, &settlement.FromUserID, &settlement.ToUserID,
			&settlement.GroupID, &settlement.Amount, &settlement.Note, &settlement.CreatedAt); err != nil {
			return nil, err
		}
		settlements = append(settlements, &settlement)
	}
	return settlements, rows.Err()
}
