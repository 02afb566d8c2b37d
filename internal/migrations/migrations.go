package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the sales tables. Amounts are stored as TEXT so decimals round-trip exactly.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS detailed_sales (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            transaction_id INTEGER NOT NULL,
            product TEXT NOT NULL,
            unit_price TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            created_at TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_detailed_sales_transaction ON detailed_sales(transaction_id);`,
		`CREATE TABLE IF NOT EXISTS summary_sales (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            transaction_id INTEGER NOT NULL,
            total TEXT NOT NULL,
            payment TEXT NOT NULL,
            change_amount TEXT NOT NULL,
            created_at TEXT NOT NULL
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
