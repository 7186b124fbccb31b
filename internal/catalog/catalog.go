// Package catalog holds the static product price list customers order from.
package catalog

import "errors"

// ErrUnknownProduct is returned when a product name is not in the catalog.
var ErrUnknownProduct = errors.New("catalog: unknown product")

// Entry is one orderable product with its unit price in whole rupees.
type Entry struct {
	Name      string
	UnitPrice int64
}

// Catalog is a read-only product -> unit price table. Iteration order is the
// declaration order, which drives keyboard layout.
type Catalog struct {
	entries []Entry
	byName  map[string]int64
}

// New builds a catalog from the given entries. Duplicate names keep the first
// price seen.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int64, len(entries)),
	}
	for _, e := range entries {
		if _, dup := c.byName[e.Name]; dup {
			continue
		}
		c.entries = append(c.entries, e)
		c.byName[e.Name] = e.UnitPrice
	}
	return c
}

// Has reports whether name is an orderable product.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Price returns the unit price for name.
func (c *Catalog) Price(name string) (int64, error) {
	price, ok := c.byName[name]
	if !ok {
		return 0, ErrUnknownProduct
	}
	return price, nil
}

// Names returns product names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Default returns the grocery price list the shop sells from.
func Default() *Catalog {
	return New([]Entry{
		{"🧼 Bathing Soap", 35},
		{"🛁 Bathing Bar", 62},
		{"🪥 Dentassure Toothpaste", 65},
		{"🪥 Tooth Brush", 235},
		{"🫖 Zeta Tea", 107},
		{"☕ Zeta Coffee", 158},
		{"🫙 Rice Bran Cooking Oil", 295},
		{"🧴 Shampoo", 163},
		{"🧴 Hair Oil", 165},
		{"🧴 Hair Conditioner", 208},
		{"🧴 Face Wash", 146},
		{"💆 Fairness Cream", 169},
		{"🧴 Hand Wash", 118},
		{"🪒 Shaving Cream", 101},
		{"💨 Body Talc", 52},
		{"🌬️ Deo (Men or Women)", 163},
		{"🧴 Body Lotion", 191},
		{"🧼 Liquid Detergent", 321},
		{"🍽️ Dish Wash Liquid", 177},
		{"🧹 Floor Cleaner", 186},
		{"🥣 Enerva Breakfast", 299},
		{"🌿 Spirulina", 350},
		{"🫙 Flax Oil", 515},
	})
}
