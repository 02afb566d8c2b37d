package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the on-disk and receipt format of sale timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Transaction is a settled cart. It is never mutated after Finalize builds it.
type Transaction struct {
	ID        int64           `json:"id"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Payment   decimal.Decimal `json:"payment"`
	Change    decimal.Decimal `json:"change"`
	Timestamp time.Time       `json:"timestamp"`
}

// DetailedRows expands the transaction into one row per line item.
func (t Transaction) DetailedRows() []DetailedRow {
	ts := t.Timestamp.Format(TimestampLayout)
	rows := make([]DetailedRow, 0, len(t.Items))
	for _, item := range t.Items {
		rows = append(rows, DetailedRow{
			TransactionID: t.ID,
			Product:       item.ProductName,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			Timestamp:     ts,
		})
	}
	return rows
}

// SummaryRow is the single summary log row of the transaction.
func (t Transaction) SummaryRow() SummaryRow {
	return SummaryRow{
		TransactionID: t.ID,
		Total:         t.Total,
		Payment:       t.Payment,
		Change:        t.Change,
		Timestamp:     t.Timestamp.Format(TimestampLayout),
	}
}

// DetailedRow is one line of the detailed sales log.
type DetailedRow struct {
	TransactionID int64           `db:"transaction_id" json:"transaction_id"`
	Product       string          `db:"product" json:"product"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity      int64           `db:"quantity" json:"quantity"`
	Timestamp     string          `db:"created_at" json:"timestamp"`
}

// SummaryRow is one line of the summary sales log.
type SummaryRow struct {
	TransactionID int64           `db:"transaction_id" json:"transaction_id"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Payment       decimal.Decimal `db:"payment" json:"payment"`
	Change        decimal.Decimal `db:"change_amount" json:"change"`
	Timestamp     string          `db:"created_at" json:"timestamp"`
}
