package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"regi/m/domain"
	"regi/m/internal/catalog"
)

// LoadCatalog reads a "name,price" CSV (with header) into a catalog.
// Rows without a name or with an unparsable price are skipped and logged.
func LoadCatalog(csvPath string, logger *zap.Logger) (*catalog.Catalog, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load product catalog %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("unable to read catalog header: %w", err)
	}

	var products []domain.Product
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("unable to read catalog row", zap.Int("line", line), zap.Error(err))
			continue
		}
		if len(record) < 2 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			logger.Warn("invalid catalog price", zap.Int("line", line), zap.String("product", name), zap.Error(err))
			continue
		}
		products = append(products, domain.Product{Name: name, UnitPrice: price})
	}

	c, err := catalog.New(products)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded product catalog", zap.String("path", csvPath), zap.Int("products", len(products)))
	return c, nil
}
