package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"regi/m/domain"
)

// Catalog resolves product names to prices.
type Catalog interface {
	Lookup(name string) (domain.Product, bool)
}

// Cart is an ordered list of line items and their running total.
// Lines for the same product are kept separate.
type Cart struct {
	catalog Catalog
	items   []domain.LineItem
	total   decimal.Decimal
	newID   func() string
}

// New returns an empty cart priced from catalog.
func New(catalog Catalog) *Cart {
	return &Cart{
		catalog: catalog,
		total:   decimal.Zero,
		newID:   uuid.NewString,
	}
}

// Add appends a line for the named product.
func (c *Cart) Add(name string, quantity int64) (domain.LineItem, error) {
	product, ok := c.catalog.Lookup(name)
	if !ok {
		return domain.LineItem{}, fmt.Errorf("%w: %q", domain.ErrUnknownProduct, name)
	}
	if quantity <= 0 {
		return domain.LineItem{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}

	item := domain.LineItem{
		ID:          c.newID(),
		ProductName: product.Name,
		UnitPrice:   product.UnitPrice,
		Quantity:    quantity,
	}
	c.items = append(c.items, item)
	c.total = c.total.Add(item.LineTotal())
	return item, nil
}

// Remove drops the line with the given id. It reports whether a line was removed.
func (c *Cart) Remove(id string) bool {
	for i, item := range c.items {
		if item.ID != id {
			continue
		}
		c.items = append(c.items[:i], c.items[i+1:]...)
		c.total = c.total.Sub(item.LineTotal())
		return true
	}
	return false
}

// RemoveByLabel removes the first line whose display label equals label.
func (c *Cart) RemoveByLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, item := range c.items {
		if Label(item) == label {
			return c.Remove(item.ID)
		}
	}
	return false
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of all line totals.
func (c *Cart) Total() decimal.Decimal { return c.total }

// Len is the number of lines.
func (c *Cart) Len() int { return len(c.items) }

// Reset empties the cart.
func (c *Cart) Reset() {
	c.items = nil
	c.total = decimal.Zero
}
