// Package saleslog persists settled transactions as two append-only record sets:
// one detailed row per line item and one summary row per transaction.
package saleslog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"regi/m/domain"
)

// Store appends transactions and reads the record sets back.
// The bool returned by the readers is false when nothing has been recorded yet.
type Store interface {
	Record(ctx context.Context, tx domain.Transaction) error
	Details(ctx context.Context) ([]domain.DetailedRow, bool, error)
	Summaries(ctx context.Context) ([]domain.SummaryRow, bool, error)
	Close() error
}

// Supported Store drivers.
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// Options selects and configures a Store.
type Options struct {
	Driver       string
	DetailedPath string
	SummaryPath  string
	DB           *sqlx.DB
}

// Open returns the Store named by opts.Driver. An empty driver means CSV.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverCSV:
		return NewCSVStore(opts.DetailedPath, opts.SummaryPath), nil
	case DriverSQLite:
		if opts.DB == nil {
			return nil, fmt.Errorf("sqlite sales store needs a database handle")
		}
		return NewSQLStore(opts.DB), nil
	default:
		return nil, fmt.Errorf("unknown sales store %q", opts.Driver)
	}
}
