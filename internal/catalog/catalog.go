package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"regi/m/domain"
)

// Catalog is the fixed set of products a register can sell.
type Catalog struct {
	products []domain.Product
	byName   map[string]domain.Product
}

// New builds a catalog. Names must be unique and prices non-negative.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byName:   make(map[string]domain.Product, len(products)),
	}
	for _, p := range products {
		if p.Name == "" {
			return nil, fmt.Errorf("product name is required")
		}
		if p.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("product %q has negative price %s", p.Name, p.UnitPrice)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate product %q", p.Name)
		}
		c.byName[p.Name] = p
		c.products = append(c.products, p)
	}
	return c, nil
}

// Default returns the built-in demo catalog.
func Default() *Catalog {
	c, _ := New([]domain.Product{
		{Name: "商品A", UnitPrice: decimal.NewFromInt(100)},
		{Name: "商品B", UnitPrice: decimal.NewFromInt(200)},
		{Name: "商品C", UnitPrice: decimal.NewFromInt(300)},
	})
	return c
}

// Lookup finds a product by exact name.
func (c *Catalog) Lookup(name string) (domain.Product, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Products returns the products in definition order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}
