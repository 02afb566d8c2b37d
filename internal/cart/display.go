package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"regi/m/domain"
)

// DisplayLine pairs a line id with its label.
type DisplayLine struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Display is the cart as shown to the operator.
type Display struct {
	Lines  []DisplayLine `json:"lines"`
	Total  string        `json:"total"`
	Detail string        `json:"detail"`
}

// Yen renders an amount as whole yen.
func Yen(amount decimal.Decimal) string {
	return "¥" + amount.StringFixed(0)
}

// Label is the display string of a line, e.g. "商品A (x2): ¥200".
func Label(item domain.LineItem) string {
	return fmt.Sprintf("%s (x%d): %s", item.ProductName, item.Quantity, Yen(item.LineTotal()))
}

// TotalLabel renders the cart total line.
func TotalLabel(total decimal.Decimal) string {
	return "合計金額: " + Yen(total)
}

// Display renders the current cart.
func (c *Cart) Display() Display {
	lines := make([]DisplayLine, 0, len(c.items))
	labels := make([]string, 0, len(c.items))
	for _, item := range c.items {
		label := Label(item)
		lines = append(lines, DisplayLine{ID: item.ID, Label: label})
		labels = append(labels, label)
	}
	return Display{
		Lines:  lines,
		Total:  TotalLabel(c.total),
		Detail: strings.Join(labels, "\n"),
	}
}
