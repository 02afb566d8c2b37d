package saleslog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"regi/m/domain"
)

// SQLStore keeps the two record sets in SQL tables. Both rows of a
// transaction commit together.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps a migrated database.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Record inserts every row of tx in one database transaction.
func (s *SQLStore) Record(ctx context.Context, tx domain.Transaction) error {
	dbtx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", domain.ErrPersistenceFailure, err)
	}
	defer dbtx.Rollback()

	for _, row := range tx.DetailedRows() {
		if _, err := dbtx.NamedExecContext(ctx, `INSERT INTO detailed_sales (transaction_id, product, unit_price, quantity, created_at)
                VALUES (:transaction_id, :product, :unit_price, :quantity, :created_at)`, row); err != nil {
			return fmt.Errorf("%w: detailed row: %w", domain.ErrPersistenceFailure, err)
		}
	}

	if _, err := dbtx.NamedExecContext(ctx, `INSERT INTO summary_sales (transaction_id, total, payment, change_amount, created_at)
                VALUES (:transaction_id, :total, :payment, :change_amount, :created_at)`, tx.SummaryRow()); err != nil {
		return fmt.Errorf("%w: summary row: %w", domain.ErrPersistenceFailure, err)
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// Details returns the detailed rows in insertion order.
func (s *SQLStore) Details(ctx context.Context) ([]domain.DetailedRow, bool, error) {
	var rows []domain.DetailedRow
	err := s.db.SelectContext(ctx, &rows, `SELECT transaction_id, product, unit_price, quantity, created_at
                FROM detailed_sales ORDER BY id ASC`)
	if err != nil {
		return nil, false, fmt.Errorf("unable to load detailed sales: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows, true, nil
}

// Summaries returns the summary rows in insertion order.
func (s *SQLStore) Summaries(ctx context.Context) ([]domain.SummaryRow, bool, error) {
	var rows []domain.SummaryRow
	err := s.db.SelectContext(ctx, &rows, `SELECT transaction_id, total, payment, change_amount, created_at
                FROM summary_sales ORDER BY id ASC`)
	if err != nil {
		return nil, false, fmt.Errorf("unable to load summary sales: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows, true, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
