// Package analytics computes read-only views over the detailed sales log.
// Every call reads the log again; nothing is cached.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"regi/m/domain"
)

// NoDataMessage is shown when nothing has been sold yet.
const NoDataMessage = "売上データがありません。"

// DetailSource reads the detailed sales log.
type DetailSource interface {
	Details(ctx context.Context) ([]domain.DetailedRow, bool, error)
}

// Summary is the sales overview shown to the operator.
type Summary struct {
	Available          bool            `json:"available"`
	AveragePrice       decimal.Decimal `json:"average_price"`
	BestSeller         string          `json:"best_seller,omitempty"`
	BestSellerQuantity int64           `json:"best_seller_quantity,omitempty"`
	Text               string          `json:"text"`
}

// Service computes views over a DetailSource.
type Service struct {
	source DetailSource
}

// NewService returns a Service reading from source.
func NewService(source DetailSource) *Service {
	return &Service{source: source}
}

// Summarize returns the quantity-weighted average unit price and the best-selling
// product. Ties go to the product seen first in the log.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	rows, ok, err := s.source.Details(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("unable to read sales: %w", err)
	}
	if !ok {
		return noData(), nil
	}

	revenue := decimal.Zero
	var quantity int64
	var order []string
	byProduct := make(map[string]int64)
	for _, row := range rows {
		revenue = revenue.Add(row.UnitPrice.Mul(decimal.NewFromInt(row.Quantity)))
		quantity += row.Quantity
		if _, seen := byProduct[row.Product]; !seen {
			order = append(order, row.Product)
		}
		byProduct[row.Product] += row.Quantity
	}
	if quantity == 0 {
		return noData(), nil
	}

	best := order[0]
	for _, name := range order[1:] {
		if byProduct[name] > byProduct[best] {
			best = name
		}
	}

	avg := revenue.Div(decimal.NewFromInt(quantity))
	return Summary{
		Available:          true,
		AveragePrice:       avg,
		BestSeller:         best,
		BestSellerQuantity: byProduct[best],
		Text: fmt.Sprintf("平均単価: ¥%s\n売れ筋商品: %s (%d個)",
			avg.StringFixed(2), best, byProduct[best]),
	}, nil
}

func noData() Summary {
	return Summary{Available: false, AveragePrice: decimal.Zero, Text: NoDataMessage}
}
