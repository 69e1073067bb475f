package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/splitledger/internal/domain"
	"github.com/phrazzld/splitledger/internal/service"
	"github.com/phrazzld/splitledger/internal/store"
)

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to an equal split among all members", func(t *testing.T) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		bob := f.registerUser(t, "Bob", "bob@example.com")
		carol := f.registerUser(t, "Carol", "carol@example.com")
		group := f.createGroup(t, "trip", alice.ID, bob.ID, carol.ID)

		expense, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID:     group.ID,
			PayerID:     alice.ID,
			Description: "hotel",
			Amount:      money(t, "90.00"),
		})
		require.NoError(t, err)

		require.Len(t, expense.Shares, 3)
		for _, share := range expense.Shares {
			assert.True(t, share.Amount.Equal(money(t, "30.00")),
				"share for %s is %s", share.DebtorID, share.Amount)
		}
	})

	t.Run("remainder cents go to the first debtors", func(t *testing.T) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		bob := f.registerUser(t, "Bob", "bob@example.com")
		carol := f.registerUser(t, "Carol", "carol@example.com")
		group := f.createGroup(t, "trip", alice.ID, bob.ID, carol.ID)

		expense, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID:   group.ID,
			PayerID:   alice.ID,
			Amount:    money(t, "100.00"),
			DebtorIDs: []uuid.UUID{alice.ID, bob.ID, carol.ID},
		})
		require.NoError(t, err)

		require.Len(t, expense.Shares, 3)
		assert.True(t, expense.Shares[0].Amount.Equal(money(t, "33.34")))
		assert.True(t, expense.Shares[1].Amount.Equal(money(t, "33.33")))
		assert.True(t, expense.Shares[2].Amount.Equal(money(t, "33.33")))

		sum := decimal.Zero
		for _, share := range expense.Shares {
			sum = sum.Add(share.Amount)
		}
		assert.True(t, sum.Equal(expense.Amount))
	})

	t.Run("explicit shares must sum to the amount", func(t *testing.T) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		bob := f.registerUser(t, "Bob", "bob@example.com")
		group := f.createGroup(t, "trip", alice.ID, bob.ID)

		_, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID: group.ID,
			PayerID: alice.ID,
			Amount:  money(t, "50.00"),
			Shares: map[uuid.UUID]decimal.Decimal{
				alice.ID: money(t, "20.00"),
				bob.ID:   money(t, "20.00"),
			},
		})
		assert.ErrorIs(t, err, domain.ErrShareSumMismatch)
	})

	t.Run("accepts an uneven explicit split", func(t *testing.T) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		bob := f.registerUser(t, "Bob", "bob@example.com")
		group := f.createGroup(t, "trip", alice.ID, bob.ID)

		expense, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID: group.ID,
			PayerID: alice.ID,
			Amount:  money(t, "50.00"),
			Shares: map[uuid.UUID]decimal.Decimal{
				alice.ID: money(t, "10.00"),
				bob.ID:   money(t, "40.00"),
			},
		})
		require.NoError(t, err)
		assert.Len(t, expense.Shares, 2)
	})

	t.Run("payer must be a member", func(t *testing.T) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		outsider := f.registerUser(t, "Mallory", "mallory@example.com")
		group := f.createGroup(t, "trip", alice.ID)

		_, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID: group.ID,
			PayerID: outsider.ID,
			Amount:  money(t, "10.00"),
		})
		assert.ErrorIs(t, err, service.ErrPayerNotMember)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("every debtor must be a member", func(t *testing.T) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		outsider := f.registerUser(t, "Mallory", "mallory@example.com")
		group := f.createGroup(t, "trip", alice.ID)

		_, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID:   group.ID,
			PayerID:   alice.ID,
			Amount:    money(t, "10.00"),
			DebtorIDs: []uuid.UUID{alice.ID, outsider.ID},
		})
		assert.ErrorIs(t, err, service.ErrDebtorNotMember)
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		group := f.createGroup(t, "trip", alice.ID)

		_, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID: group.ID,
			PayerID: alice.ID,
			Amount:  money(t, "0.00"),
		})
		assert.ErrorIs(t, err, domain.ErrNonPositiveAmount)
	})

	t.Run("rejects sub-cent precision", func(t *testing.T) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		group := f.createGroup(t, "trip", alice.ID)

		_, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID: group.ID,
			PayerID: alice.ID,
			Amount:  money(t, "10.001"),
		})
		assert.ErrorIs(t, err, domain.ErrPrecision)
	})
}

func TestRemoveShare(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *domain.Expense) {
		f := newFixture(t)
		alice := f.registerUser(t, "Alice", "alice@example.com")
		bob := f.registerUser(t, "Bob", "bob@example.com")
		group := f.createGroup(t, "trip", alice.ID, bob.ID)

		expense, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
			GroupID: group.ID,
			PayerID: alice.ID,
			Amount:  money(t, "40.00"),
		})
		require.NoError(t, err)
		return f, expense
	}

	t.Run("removes exactly one share", func(t *testing.T) {
		f, expense := setup(t)
		target := expense.Shares[0]

		require.NoError(t, f.expenseSvc.RemoveShare(ctx, expense.ID, target.ID))

		stored, err := f.expenseSvc.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		require.Len(t, stored.Shares, 1)
		assert.NotEqual(t, target.ID, stored.Shares[0].ID)
	})

	t.Run("second removal fails and changes nothing", func(t *testing.T) {
		f, expense := setup(t)
		target := expense.Shares[0]

		require.NoError(t, f.expenseSvc.RemoveShare(ctx, expense.ID, target.ID))
		err := f.expenseSvc.RemoveShare(ctx, expense.ID, target.ID)
		assert.ErrorIs(t, err, store.ErrShareNotFound)

		stored, err := f.expenseSvc.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Shares, 1)
	})

	t.Run("share must belong to the named expense", func(t *testing.T) {
		f, expense := setup(t)

		err := f.expenseSvc.RemoveShare(ctx, uuid.New(), expense.Shares[0].ID)
		assert.ErrorIs(t, err, store.ErrShareNotFound)
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.registerUser(t, "Alice", "alice@example.com")
	bob := f.registerUser(t, "Bob", "bob@example.com")
	group := f.createGroup(t, "trip", alice.ID, bob.ID)

	expense, err := f.expenseSvc.CreateExpense(ctx, service.CreateExpenseInput{
		GroupID: group.ID,
		PayerID: alice.ID,
		Amount:  money(t, "40.00"),
	})
	require.NoError(t, err)

	require.NoError(t, f.expenseSvc.DeleteExpense(ctx, expense.ID))

	_, err = f.expenseSvc.GetExpense(ctx, expense.ID)
	assert.ErrorIs(t, err, store.ErrExpenseNotFound)

	// The shares went with the expense.
	shares, err := f.expenses.ListSharesByDebtor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, shares)

	err = f.expenseSvc.DeleteExpense(ctx, expense.ID)
	assert.ErrorIs(t, err, store.ErrExpenseNotFound)
}
