package saleslog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regi/m/domain"
	"regi/m/internal/database"
	"regi/m/internal/migrations"
)

func setupSQLStore(t *testing.T) *SQLStore {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	store := NewSQLStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLStore_EmptyIsAbsent(t *testing.T) {
	store := setupSQLStore(t)

	rows, ok, err := store.Details(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rows)

	_, ok, err = store.Summaries(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLStore_RoundTrip(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	tx := testTransaction(1)
	tx.Items = append(tx.Items, domain.LineItem{ProductName: "抹茶", UnitPrice: decimal.RequireFromString("150.5"), Quantity: 3})
	require.NoError(t, store.Record(ctx, tx))
	require.NoError(t, store.Record(ctx, testTransaction(2)))

	rows, ok, err := store.Details(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rows, 5)
	assert.Equal(t, "抹茶", rows[2].Product)
	assert.True(t, rows[2].UnitPrice.Equal(decimal.RequireFromString("150.5")))
	assert.Equal(t, int64(3), rows[2].Quantity)
	assert.Equal(t, int64(2), rows[4].TransactionID)
	assert.Equal(t, "2024-05-01 12:00:05", rows[0].Timestamp)

	sums, ok, err := store.Summaries(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, sums, 2)
	assert.Equal(t, int64(1), sums[0].TransactionID)
	assert.True(t, sums[1].Change.Equal(decimal.NewFromInt(100)))
}

func TestSQLStore_FailureIsPersistenceError(t *testing.T) {
	store := setupSQLStore(t)
	_, err := store.db.Exec(`DROP TABLE summary_sales`)
	require.NoError(t, err)

	err = store.Record(context.Background(), testTransaction(1))
	require.ErrorIs(t, err, domain.ErrPersistenceFailure)

	// The detailed rows of the failed transaction are rolled back.
	_, ok, err := store.Details(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
