package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry.
type Product struct {
	Name      string          `db:"name" json:"name"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// LineItem is one cart line. ID stays fixed for the life of the line.
type LineItem struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}
