package saleslog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regi/m/domain"
)

func testTransaction(id int64) domain.Transaction {
	return domain.Transaction{
		ID: id,
		Items: []domain.LineItem{
			{ID: "1", ProductName: "商品A", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
			{ID: "2", ProductName: "商品B", UnitPrice: decimal.NewFromInt(200), Quantity: 1},
		},
		Total:     decimal.NewFromInt(400),
		Payment:   decimal.NewFromInt(500),
		Change:    decimal.NewFromInt(100),
		Timestamp: time.Date(2024, 5, 1, 12, 0, 5, 0, time.Local),
	}
}

func newTestCSVStore(t *testing.T) (*CSVStore, string, string) {
	dir := t.TempDir()
	detailed := filepath.Join(dir, "detailed_sales.csv")
	summary := filepath.Join(dir, "summary_sales.csv")
	return NewCSVStore(detailed, summary), detailed, summary
}

func TestCSVStore_AbsentLogs(t *testing.T) {
	store, _, _ := newTestCSVStore(t)

	rows, ok, err := store.Details(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rows)

	sums, ok, err := store.Summaries(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, sums)
}

func TestCSVStore_RecordWritesHeaderOnce(t *testing.T) {
	store, detailed, summary := newTestCSVStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, testTransaction(1)))
	require.NoError(t, store.Record(ctx, testTransaction(2)))

	raw, err := os.ReadFile(detailed)
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.HasPrefix(content, "\uFEFF会計ID,商品,価格,個数,日時\n"))
	assert.Equal(t, 1, strings.Count(content, "会計ID"))
	assert.Equal(t, 5, strings.Count(content, "\n"))
	assert.Contains(t, content, "1,商品A,100,2,2024-05-01 12:00:05\n")
	assert.Contains(t, content, "2,商品B,200,1,2024-05-01 12:00:05\n")

	raw, err = os.ReadFile(summary)
	require.NoError(t, err)
	assert.Equal(t,
		"\uFEFF会計ID,総額,支払金額,おつり,日時\n"+
			"1,400,500,100,2024-05-01 12:00:05\n"+
			"2,400,500,100,2024-05-01 12:00:05\n",
		string(raw))
}

func TestCSVStore_RoundTrip(t *testing.T) {
	store, _, _ := newTestCSVStore(t)
	ctx := context.Background()
	tx := testTransaction(3)
	tx.Items = append(tx.Items, domain.LineItem{ProductName: "抹茶, \"特選\"", UnitPrice: decimal.RequireFromString("150.5"), Quantity: 3})

	require.NoError(t, store.Record(ctx, tx))

	rows, ok, err := store.Details(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rows, 3)
	for i, item := range tx.Items {
		assert.Equal(t, int64(3), rows[i].TransactionID)
		assert.Equal(t, item.ProductName, rows[i].Product)
		assert.True(t, item.UnitPrice.Equal(rows[i].UnitPrice), "price %s vs %s", item.UnitPrice, rows[i].UnitPrice)
		assert.Equal(t, item.Quantity, rows[i].Quantity)
		assert.Equal(t, "2024-05-01 12:00:05", rows[i].Timestamp)
	}

	sums, ok, err := store.Summaries(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, sums, 1)
	assert.Equal(t, int64(3), sums[0].TransactionID)
	assert.True(t, sums[0].Total.Equal(decimal.NewFromInt(400)))
	assert.True(t, sums[0].Payment.Equal(decimal.NewFromInt(500)))
	assert.True(t, sums[0].Change.Equal(decimal.NewFromInt(100)))
}

func TestCSVStore_HeaderOnlyLogIsPresentButEmpty(t *testing.T) {
	store, detailed, _ := newTestCSVStore(t)
	require.NoError(t, os.WriteFile(detailed, []byte("\uFEFF会計ID,商品,価格,個数,日時\n"), 0o644))

	rows, ok, err := store.Details(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rows)
}

func TestCSVStore_ReadsLogWithoutBOM(t *testing.T) {
	store, detailed, _ := newTestCSVStore(t)
	require.NoError(t, os.WriteFile(detailed, []byte("会計ID,商品,価格,個数,日時\n4,商品C,300,1,2024-01-01 00:00:00\n"), 0o644))

	rows, ok, err := store.Details(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "商品C", rows[0].Product)
}

func TestCSVStore_MalformedRow(t *testing.T) {
	store, detailed, _ := newTestCSVStore(t)
	require.NoError(t, os.WriteFile(detailed, []byte("会計ID,商品,価格,個数,日時\nx,商品C,300,1,2024-01-01 00:00:00\n"), 0o644))

	_, _, err := store.Details(context.Background())
	require.ErrorContains(t, err, "transaction id")
}

func TestCSVStore_DetailedWriteFailure(t *testing.T) {
	dir := t.TempDir()
	detailed := filepath.Join(dir, "detailed_sales.csv")
	require.NoError(t, os.Mkdir(detailed, 0o755))
	store := NewCSVStore(detailed, filepath.Join(dir, "summary_sales.csv"))

	err := store.Record(context.Background(), testTransaction(1))
	require.ErrorIs(t, err, domain.ErrPersistenceFailure)
	assert.Contains(t, err.Error(), "detailed log")

	_, ok, err := store.Summaries(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "summary must not be written when the detailed log fails")
}

func TestCSVStore_PartialWriteReported(t *testing.T) {
	dir := t.TempDir()
	summary := filepath.Join(dir, "summary_sales.csv")
	require.NoError(t, os.Mkdir(summary, 0o755))
	store := NewCSVStore(filepath.Join(dir, "detailed_sales.csv"), summary)

	err := store.Record(context.Background(), testTransaction(9))
	require.ErrorIs(t, err, domain.ErrPersistenceFailure)
	require.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Contains(t, err.Error(), "summary log")
	assert.Contains(t, err.Error(), "already written")

	rows, ok, err := store.Details(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, rows, 2)
}

func TestCSVStore_RetryAfterPartialWriteAppendsOnlySummary(t *testing.T) {
	dir := t.TempDir()
	summary := filepath.Join(dir, "summary_sales.csv")
	require.NoError(t, os.Mkdir(summary, 0o755))
	store := NewCSVStore(filepath.Join(dir, "detailed_sales.csv"), summary)
	ctx := context.Background()

	require.ErrorIs(t, store.Record(ctx, testTransaction(1)), domain.ErrPartialWrite)
	require.NoError(t, os.Remove(summary))

	require.NoError(t, store.Record(ctx, testTransaction(1)))

	details, _, err := store.Details(ctx)
	require.NoError(t, err)
	assert.Len(t, details, 2)
	sums, _, err := store.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, int64(1), sums[0].TransactionID)

	require.NoError(t, store.Record(ctx, testTransaction(2)))
	details, _, err = store.Details(ctx)
	require.NoError(t, err)
	assert.Len(t, details, 4)
}

func TestCSVStore_CreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(filepath.Join(dir, "logs", "d.csv"), filepath.Join(dir, "logs", "s.csv"))
	require.NoError(t, store.Record(context.Background(), testTransaction(1)))

	_, err := os.Stat(filepath.Join(dir, "logs", "s.csv"))
	require.NoError(t, err)
}

func TestOpen_SelectsDriver(t *testing.T) {
	s, err := Open(Options{DetailedPath: "d.csv", SummaryPath: "s.csv"})
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, s)

	_, err = Open(Options{Driver: DriverSQLite})
	require.Error(t, err)

	_, err = Open(Options{Driver: "mongo"})
	require.ErrorContains(t, err, "unknown sales store")
}
