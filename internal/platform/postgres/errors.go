package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/splitledger/internal/store"
)

// PostgreSQL error codes the stores translate into the store taxonomy.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
	pgCheckViolationCode      = "23514"
	pgSerializationFailure    = "40001"
	pgDeadlockDetected        = "40P01"
	pgLockNotAvailable        = "55P03"
)

// isUniqueViolation checks if the error is a unique constraint violation,
// e.g. a duplicate email.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}

// isForeignKeyViolation checks if the error is a foreign key violation,
// meaning a referenced record is missing or still referenced.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode
}

// isSerializationConflict checks if the error indicates that concurrent
// transactions collided on the same rows.
func isSerializationConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	default:
		return false
	}
}

// mapError translates driver-level errors into the store error taxonomy.
// notFound is the entity-specific sentinel substituted for sql.ErrNoRows.
func mapError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", store.ErrIntegrityViolation, err)
	case isSerializationConflict(err):
		return fmt.Errorf("%w: %v", store.ErrConcurrentModification, err)
	default:
		return err
	}
}
