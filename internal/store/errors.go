package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. This is the generic version of the entity-specific not
	// found errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g. a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrIntegrityViolation is returned when a paired-relationship or
	// cascade operation cannot complete consistently. The whole operation
	// aborts and the prior state is preserved.
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrConcurrentModification is returned when a conflicting concurrent
	// write to the same record was detected. The caller may retry.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrTransactionFailed is returned when a transaction fails to begin
	// or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrGroupNotFound indicates that the requested group does not exist in the store.
	ErrGroupNotFound = fmt.Errorf("%w: group", ErrNotFound)

	// ErrExpenseNotFound indicates that the requested expense does not exist in the store.
	ErrExpenseNotFound = fmt.Errorf("%w: expense", ErrNotFound)

	// ErrShareNotFound indicates that the requested expense share does not exist in the store.
	ErrShareNotFound = fmt.Errorf("%w: expense share", ErrNotFound)

	// ErrSettlementNotFound indicates that the requested settlement does not exist in the store.
	ErrSettlementNotFound = fmt.Errorf("%w: settlement", ErrNotFound)

	// Relationship errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrMemberExists indicates that the user is already a member of the group.
	ErrMemberExists = fmt.Errorf("%w: group member", ErrDuplicate)

	// ErrMemberNotInGroup indicates an attempt to remove a membership link
	// that does not exist. Removing an absent member is a consistency
	// failure, not a no-op.
	ErrMemberNotInGroup = fmt.Errorf("%w: user is not a group member", ErrIntegrityViolation)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConflictError checks if the error indicates a concurrent-write
// conflict that the caller may resolve by retrying.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// StoreError carries additional context for store-specific failures.
type StoreError struct {
	Entity    string // the entity type (e.g. "user", "expense")
	Operation string // the operation that failed (e.g. "create", "delete")
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
