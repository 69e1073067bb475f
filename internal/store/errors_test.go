package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/splitledger/internal/store"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("entity errors classify as not found", func(t *testing.T) {
		for _, err := range []error{
			store.ErrUserNotFound,
			store.ErrGroupNotFound,
			store.ErrExpenseNotFound,
			store.ErrShareNotFound,
			store.ErrSettlementNotFound,
		} {
			assert.True(t, store.IsNotFoundError(err), "%v", err)
			assert.False(t, store.IsDuplicateError(err), "%v", err)
		}
	})

	t.Run("relationship errors classify by kind", func(t *testing.T) {
		assert.True(t, store.IsDuplicateError(store.ErrEmailExists))
		assert.True(t, store.IsDuplicateError(store.ErrMemberExists))
		assert.ErrorIs(t, store.ErrMemberNotInGroup, store.ErrIntegrityViolation)
		assert.True(t, store.IsConflictError(store.ErrConcurrentModification))
	})

	t.Run("classification survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading payer: %w", store.ErrUserNotFound)
		assert.True(t, store.IsNotFoundError(wrapped))
		assert.ErrorIs(t, wrapped, store.ErrUserNotFound)
	})
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := store.NewStoreError("expense", "create", "insert failed", cause)

	assert.Contains(t, err.Error(), "expense")
	assert.Contains(t, err.Error(), "create")
	assert.ErrorIs(t, err, cause)

	bare := store.NewStoreError("user", "delete", "no rows", nil)
	assert.Contains(t, bare.Error(), "delete operation on user failed")
}
