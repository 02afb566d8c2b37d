// Package receipt renders settled transactions as printable text.
package receipt

import (
	"fmt"
	"strings"

	"regi/m/domain"
	"regi/m/internal/cart"
)

// Generate renders tx. The output depends only on tx.
func Generate(tx domain.Transaction) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("会計ID: %d", tx.ID))
	lines = append(lines, fmt.Sprintf("日時: %s", tx.Timestamp.Format(domain.TimestampLayout)))
	lines = append(lines, "")

	for _, item := range tx.Items {
		lines = append(lines, cart.Label(item))
	}

	lines = append(lines, "")
	lines = append(lines, cart.TotalLabel(tx.Total))
	lines = append(lines, "お預かり: "+cart.Yen(tx.Payment))
	lines = append(lines, "おつり: "+cart.Yen(tx.Change))
	lines = append(lines, "")

	for _, item := range tx.Items {
		lines = append(lines, fmt.Sprintf("%s: %d個", item.ProductName, item.Quantity))
	}

	return strings.Join(lines, "\n")
}
