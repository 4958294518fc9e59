package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"finman/internal/model"
)

func seedLedger(t *testing.T, repo TransactionRepository, userID uuid.UUID) {
	t.Helper()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	entries := []model.Transaction{
		{UserID: userID, Type: model.TransactionIncome, Category: "salary", Amount: decimal.NewFromInt(4000), OccurredAt: base},
		{UserID: userID, Type: model.TransactionExpense, Category: "rent", Amount: decimal.NewFromInt(1500), OccurredAt: base.AddDate(0, 0, 1)},
		{UserID: userID, Type: model.TransactionExpense, Category: "groceries", Amount: decimal.NewFromInt(200), OccurredAt: base.AddDate(0, 0, 20)},
	}
	for i := range entries {
		require.NoError(t, repo.Create(context.Background(), &entries[i]))
	}
}

func TestTransactionRepository_ListFilters(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	otherID := uuid.New()

	seedLedger(t, repo, userID)
	require.NoError(t, repo.Create(ctx, &model.Transaction{
		UserID: otherID, Type: model.TransactionExpense, Category: "rent",
		Amount: decimal.NewFromInt(900), OccurredAt: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
	}))

	t.Run("scoped to owner", func(t *testing.T) {
		txns, err := repo.ListByUser(ctx, userID, TransactionFilter{})
		require.NoError(t, err)
		assert.Len(t, txns, 3)
	})

	t.Run("by type", func(t *testing.T) {
		txns, err := repo.ListByUser(ctx, userID, TransactionFilter{Type: model.TransactionExpense})
		require.NoError(t, err)
		assert.Len(t, txns, 2)
	})

	t.Run("by category", func(t *testing.T) {
		txns, err := repo.ListByUser(ctx, userID, TransactionFilter{Category: "rent"})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, userID, txns[0].UserID)
	})

	t.Run("by date range", func(t *testing.T) {
		txns, err := repo.ListByUser(ctx, userID, TransactionFilter{
			From: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Len(t, txns, 2)
	})

	t.Run("newest first", func(t *testing.T) {
		txns, err := repo.ListByUser(ctx, userID, TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, txns, 3)
		assert.Equal(t, "groceries", txns[0].Category)
	})
}

func TestTransactionRepository_DeleteScoped(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	txn := &model.Transaction{
		UserID: owner, Type: model.TransactionIncome, Category: "salary",
		Amount: decimal.NewFromInt(100), OccurredAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, txn))

	// A different user cannot delete it.
	err := repo.Delete(ctx, uuid.New(), txn.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, owner, txn.ID))
	_, err = repo.FindByID(ctx, owner, txn.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
