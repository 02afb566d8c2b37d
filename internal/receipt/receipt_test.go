package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"regi/m/domain"
)

func sampleTransaction() domain.Transaction {
	return domain.Transaction{
		ID: 7,
		Items: []domain.LineItem{
			{ID: "a", ProductName: "商品A", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
			{ID: "b", ProductName: "商品B", UnitPrice: decimal.NewFromInt(200), Quantity: 1},
		},
		Total:     decimal.NewFromInt(400),
		Payment:   decimal.NewFromInt(500),
		Change:    decimal.NewFromInt(100),
		Timestamp: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestGenerate_Layout(t *testing.T) {
	want := strings.Join([]string{
		"会計ID: 7",
		"日時: 2024-05-01 09:30:00",
		"",
		"商品A (x2): ¥200",
		"商品B (x1): ¥200",
		"",
		"合計金額: ¥400",
		"お預かり: ¥500",
		"おつり: ¥100",
		"",
		"商品A: 2個",
		"商品B: 1個",
	}, "\n")

	assert.Equal(t, want, Generate(sampleTransaction()))
}

func TestGenerate_Deterministic(t *testing.T) {
	tx := sampleTransaction()
	assert.Equal(t, Generate(tx), Generate(tx))
}

func TestGenerate_NoItems(t *testing.T) {
	tx := sampleTransaction()
	tx.Items = nil
	out := Generate(tx)
	assert.Contains(t, out, "会計ID: 7")
	assert.NotContains(t, out, "個")
}
