package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/mocks"
	"github.com/phrazzld/splitledger/internal/service"
)

// fixture wires every service against shared in-memory stores so tests
// can mutate through one service and observe through another.
type fixture struct {
	users       *mocks.MockUserStore
	groups      *mocks.MockGroupStore
	expenses    *mocks.MockExpenseStore
	settlements *mocks.MockSettlementStore

	userSvc       service.UserService
	groupSvc      service.GroupService
	expenseSvc    service.ExpenseService
	settlementSvc service.SettlementService
	balanceSvc    service.BalanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := mocks.NewMockUserStore()
	groups := mocks.NewMockGroupStore()
	expenses := mocks.NewMockExpenseStore()
	settlements := mocks.NewMockSettlementStore()
	runner := &mocks.MockTxRunner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		users:       users,
		groups:      groups,
		expenses:    expenses,
		settlements: settlements,

		userSvc:       service.NewUserService(users, groups, expenses, settlements, runner, logger),
		groupSvc:      service.NewGroupService(users, groups, expenses, settlements, runner, logger),
		expenseSvc:    service.NewExpenseService(groups, expenses, runner, logger),
		settlementSvc: service.NewSettlementService(users, groups, settlements, runner, logger),
		balanceSvc:    service.NewBalanceService(users, groups, expenses, settlements, runner, logger),
	}
}

// registerUser creates a registered user through the service.
func (f *fixture) registerUser(t *testing.T, name, email string) *domain.User {
	t.Helper()

	user, err := f.userSvc.Register(context.Background(), name, email, "correct-horse-battery")
	require.NoError(t, err)
	return user
}

// createGroup creates a group owned by ownerID with the given members.
func (f *fixture) createGroup(t *testing.T, name string, ownerID uuid.UUID, memberIDs ...uuid.UUID) *domain.Group {
	t.Helper()

	group, err := f.groupSvc.CreateGroup(context.Background(), name, ownerID, memberIDs)
	require.NoError(t, err)
	return group
}

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
