package saleslog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"regi/m/domain"
)

// Header rows of the detailed and summary logs.
var (
	DetailedHeader = []string{"会計ID", "商品", "価格", "個数", "日時"}
	SummaryHeader  = []string{"会計ID", "総額", "支払金額", "おつり", "日時"}
)

const utf8BOM = "\uFEFF"

// CSVStore keeps the two logs as UTF-8 CSV files with a BOM and a header row.
// Rows are only ever appended.
type CSVStore struct {
	detailedPath string
	summaryPath  string

	mu sync.Mutex
	// transactions whose detailed rows are on disk but whose summary row is not
	pendingSummary map[int64]bool
}

// NewCSVStore returns a store writing to the two given files.
func NewCSVStore(detailedPath, summaryPath string) *CSVStore {
	return &CSVStore{
		detailedPath:   detailedPath,
		summaryPath:    summaryPath,
		pendingSummary: make(map[int64]bool),
	}
}

// Record appends the detailed rows of tx, then its summary row. If an earlier
// call for the same transaction id already wrote the detailed rows, only the
// summary row is appended.
func (s *CSVStore) Record(ctx context.Context, tx domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pendingSummary[tx.ID] {
		if err := s.appendDetails(tx); err != nil {
			return err
		}
		s.pendingSummary[tx.ID] = true
	}

	sum := tx.SummaryRow()
	summary := [][]string{{
		strconv.FormatInt(sum.TransactionID, 10),
		sum.Total.String(),
		sum.Payment.String(),
		sum.Change.String(),
		sum.Timestamp,
	}}
	if err := appendRecords(s.summaryPath, SummaryHeader, summary); err != nil {
		return fmt.Errorf("%w: %w: summary log (detailed rows for transaction %d already written): %w",
			domain.ErrPersistenceFailure, domain.ErrPartialWrite, tx.ID, err)
	}
	delete(s.pendingSummary, tx.ID)
	return nil
}

func (s *CSVStore) appendDetails(tx domain.Transaction) error {
	details := tx.DetailedRows()
	records := make([][]string, 0, len(details))
	for _, row := range details {
		records = append(records, []string{
			strconv.FormatInt(row.TransactionID, 10),
			row.Product,
			row.UnitPrice.String(),
			strconv.FormatInt(row.Quantity, 10),
			row.Timestamp,
		})
	}
	if err := appendRecords(s.detailedPath, DetailedHeader, records); err != nil {
		return fmt.Errorf("%w: detailed log: %w", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// Details reads the detailed log. It reports false when the file does not exist.
func (s *CSVStore) Details(ctx context.Context) ([]domain.DetailedRow, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	records, ok, err := readRecords(s.detailedPath)
	if err != nil || !ok {
		return nil, ok, err
	}

	rows := make([]domain.DetailedRow, 0, len(records))
	for i, rec := range records {
		if len(rec) < len(DetailedHeader) {
			return nil, true, fmt.Errorf("%s line %d: expected %d fields, got %d", s.detailedPath, i+2, len(DetailedHeader), len(rec))
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, true, fmt.Errorf("%s line %d: transaction id: %w", s.detailedPath, i+2, err)
		}
		price, err := decimal.NewFromString(rec[2])
		if err != nil {
			return nil, true, fmt.Errorf("%s line %d: price: %w", s.detailedPath, i+2, err)
		}
		qty, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			return nil, true, fmt.Errorf("%s line %d: quantity: %w", s.detailedPath, i+2, err)
		}
		rows = append(rows, domain.DetailedRow{
			TransactionID: id,
			Product:       rec[1],
			UnitPrice:     price,
			Quantity:      qty,
			Timestamp:     rec[4],
		})
	}
	return rows, true, nil
}

// Summaries reads the summary log. It reports false when the file does not exist.
func (s *CSVStore) Summaries(ctx context.Context) ([]domain.SummaryRow, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	records, ok, err := readRecords(s.summaryPath)
	if err != nil || !ok {
		return nil, ok, err
	}

	rows := make([]domain.SummaryRow, 0, len(records))
	for i, rec := range records {
		if len(rec) < len(SummaryHeader) {
			return nil, true, fmt.Errorf("%s line %d: expected %d fields, got %d", s.summaryPath, i+2, len(SummaryHeader), len(rec))
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, true, fmt.Errorf("%s line %d: transaction id: %w", s.summaryPath, i+2, err)
		}
		amounts := make([]decimal.Decimal, 3)
		for j := range amounts {
			amounts[j], err = decimal.NewFromString(rec[j+1])
			if err != nil {
				return nil, true, fmt.Errorf("%s line %d: %s: %w", s.summaryPath, i+2, SummaryHeader[j+1], err)
			}
		}
		rows = append(rows, domain.SummaryRow{
			TransactionID: id,
			Total:         amounts[0],
			Payment:       amounts[1],
			Change:        amounts[2],
			Timestamp:     rec[4],
		})
	}
	return rows, true, nil
}

// Close is a no-op; files are opened per write.
func (s *CSVStore) Close() error { return nil }

// appendRecords writes records to the end of path in a single write, creating the
// file with a BOM and header when it is new or empty.
func appendRecords(path string, header []string, records [][]string) error {
	if len(records) == 0 {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if info.Size() == 0 {
		buf.WriteString(utf8BOM)
	}
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}

	if _, err := file.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return err
	}
	return file.Close()
}

// readRecords returns the data rows of path, without the header.
func readRecords(path string) ([][]string, bool, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, true, nil
		}
		return nil, true, fmt.Errorf("read %s header: %w", path, err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, true, fmt.Errorf("read %s: %w", path, err)
	}
	return records, true, nil
}
