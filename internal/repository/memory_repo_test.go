package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"bank_transactions/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(amount string) *domain.Transaction {
	return &domain.Transaction{
		Type:      domain.TransactionTypeDeposit,
		Status:    domain.TransactionStatusPending,
		Amount:    decimal.RequireFromString(amount),
		Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryTransactionRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTransactionRepository()

	a := newTx("10")
	b := newTx("20")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(10)))

	missing, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := repo.ExistsByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	upd := &domain.Transaction{ID: a.ID, Type: domain.TransactionTypeWithdrawal, Status: domain.TransactionStatusCompleted, Amount: decimal.NewFromInt(5)}
	require.NoError(t, repo.Update(ctx, upd))
	assert.Equal(t, a.Timestamp, upd.Timestamp)

	err = repo.Update(ctx, &domain.Transaction{ID: 99})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, repo.DeleteByID(ctx, b.ID))
	ok, err = repo.ExistsByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryTransactionRepository_FindPage(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTransactionRepository()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newTx("1")))
	}

	rows, total, err := repo.FindPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].ID)
	assert.Equal(t, int64(4), rows[1].ID)

	rows, total, err = repo.FindPage(ctx, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, rows)
}

func TestMemoryTransactionRepository_FindPage_OutOfRange(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTransactionRepository()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newTx("1")))
	}

	rows, _, err := repo.FindPage(ctx, -4, 2)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, _, err = repo.FindPage(ctx, 1, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].ID)
}
