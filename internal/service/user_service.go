package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/service/auth"
	"github.com/phrazzld/splitledger/internal/store"
)

// UserService provides user lifecycle operations: registration,
// placeholder creation and promotion, lookups, and the full cascade
// delete.
type UserService interface {
	// Register creates a fully registered user. The plaintext password is
	// hashed here; only the opaque credential is stored.
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// CreatePlaceholder creates a minimal participant with only a name,
	// for guests who have not signed up yet.
	CreatePlaceholder(ctx context.Context, name string) (*domain.User, error)

	// PromotePlaceholder upgrades a placeholder into a registered user.
	// Returns domain.ErrNotPlaceholder if the user is already registered
	// and store.ErrEmailExists if the email is taken.
	PromotePlaceholder(ctx context.Context, userID uuid.UUID, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateUserEmail updates a registered user's email address.
	UpdateUserEmail(ctx context.Context, userID uuid.UUID, newEmail string) error

	// DeleteUser deletes the user and, in the same transaction, all
	// groups they own (with those groups' expenses and shares), all
	// expenses they paid, all shares they owe, all settlements they sent
	// or received, and their group memberships. All or nothing.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore       store.UserStore
	groupStore      store.GroupStore
	expenseStore    store.ExpenseStore
	settlementStore store.SettlementStore
	runner          store.TxRunner
	logger          *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	groupStore store.GroupStore,
	expenseStore store.ExpenseStore,
	settlementStore store.SettlementStore,
	runner store.TxRunner,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore:       userStore,
		groupStore:      groupStore,
		expenseStore:    expenseStore,
		settlementStore: settlementStore,
		runner:          runner,
		logger:          logger.With("component", "user_service"),
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.Register.
func (s *UserServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(name, email, hashed)
	if err != nil {
		return nil, err
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register existing email", "email", email)
		} else {
			s.logger.Error("failed to register user", "error", err, "email", email)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// CreatePlaceholder implements UserService.CreatePlaceholder.
func (s *UserServiceImpl) CreatePlaceholder(ctx context.Context, name string) (*domain.User, error) {
	user, err := domain.NewPlaceholderUser(name)
	if err != nil {
		return nil, err
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		s.logger.Error("failed to create placeholder", "error", err, "name", name)
		return nil, err
	}

	s.logger.Info("placeholder created", "user_id", user.ID)
	return user, nil
}

// PromotePlaceholder implements UserService.PromotePlaceholder.
func (s *UserServiceImpl) PromotePlaceholder(ctx context.Context, userID uuid.UUID, email, password string) (*domain.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	var promoted *domain.User
	err = s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)

		user, err := users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := user.Promote(email, hashed); err != nil {
			return err
		}
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		promoted = user
		return nil
	})
	if err != nil {
		s.logger.Error("failed to promote placeholder", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("placeholder promoted", "user_id", userID)
	return promoted, nil
}

// GetUser implements UserService.GetUser.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// GetUserByEmail implements UserService.GetUserByEmail.
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found by email", "email", email)
		}
		return nil, fmt.Errorf("failed to retrieve user by email: %w", err)
	}
	return user, nil
}

// UpdateUserEmail implements UserService.UpdateUserEmail.
func (s *UserServiceImpl) UpdateUserEmail(ctx context.Context, userID uuid.UUID, newEmail string) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)

		user, err := users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		user.Email = newEmail
		user.UpdatedAt = time.Now().UTC()
		if err := user.Validate(); err != nil {
			return err
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		s.logger.Error("failed to update user email", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user email updated", "user_id", userID)
	return nil
}

// DeleteUser implements UserService.DeleteUser.
//
// Cascade order matters: owned groups first (each taking its expenses,
// shares and memberships with it), then expenses the user paid in other
// groups, then shares the user owes on other users' expenses, then
// settlements on either endpoint, then remaining memberships, then the
// user row. Any failure rolls back the entire cascade.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		groups := s.groupStore.WithTx(tx)
		expenses := s.expenseStore.WithTx(tx)
		settlements := s.settlementStore.WithTx(tx)

		user, err := users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		owned, err := groups.ListOwnedBy(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to list owned groups: %w", err)
		}
		for _, group := range owned {
			if err := deleteGroupCascade(ctx, s.logger, groups, expenses, settlements, group.ID); err != nil {
				return err
			}
		}

		paid, err := expenses.ListByPayer(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to list paid expenses: %w", err)
		}
		for _, expense := range paid {
			if err := expenses.Delete(ctx, expense.ID); err != nil {
				return fmt.Errorf("failed to delete expense %s: %w", expense.ID, err)
			}
		}

		if _, err := expenses.DeleteSharesByDebtor(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete owed shares: %w", err)
		}
		if _, err := settlements.DeleteForUser(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete settlements: %w", err)
		}
		if _, err := groups.RemoveUserMemberships(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to remove memberships: %w", err)
		}

		return users.Delete(ctx, user.ID)
	})
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}
