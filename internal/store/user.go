package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetForUpdate retrieves a user and, when running inside a
	// transaction, locks the row for the duration of that transaction so
	// concurrent mutators are serialized.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrConcurrentModification if the lock cannot be acquired.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address, the username
	// the authentication collaborator looks users up by.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's details. The caller must provide
	// a complete user object.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user row by ID. It does not cascade; the service
	// layer removes dependent records first inside the same transaction.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore that executes against the provided
	// transaction, allowing multiple operations in a single transaction.
	WithTx(tx *sql.Tx) UserStore
}
