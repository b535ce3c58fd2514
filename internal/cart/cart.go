// Package cart implements the per-session shopping cart.
package cart

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceLookup resolves the current price of a dish. Unknown dishes price at zero.
type PriceLookup interface {
	Price(name string) decimal.Decimal
}

// MaxQuantity is the most units of one dish a cart holds.
const MaxQuantity = 999

// Cart maps dish names to positive quantities. A dish with quantity zero is
// never stored.
type Cart struct {
	items map[string]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{items: make(map[string]int)}
}

// FromMap rebuilds a cart from its stored form, dropping non-positive entries.
func FromMap(items map[string]int) *Cart {
	c := New()
	for name, quantity := range items {
		c.SetQuantity(name, quantity)
	}
	return c
}

// Items returns a copy of the cart contents suitable for storing in a session.
func (c *Cart) Items() map[string]int {
	items := make(map[string]int, len(c.items))
	for name, quantity := range c.items {
		items[name] = quantity
	}
	return items
}

// SetQuantity overwrites the quantity for dish. Zero or negative removes it;
// anything above MaxQuantity is clamped.
func (c *Cart) SetQuantity(dish string, quantity int) {
	name := strings.TrimSpace(dish)
	if name == "" {
		return
	}
	if quantity <= 0 {
		delete(c.items, name)
		return
	}
	c.items[name] = min(quantity, MaxQuantity)
}

// Quantity returns the quantity held for dish.
func (c *Cart) Quantity(dish string) int {
	return c.items[strings.TrimSpace(dish)]
}

// Increment adds one unit of dish.
func (c *Cart) Increment(dish string) {
	c.SetQuantity(dish, c.Quantity(dish)+1)
}

// Decrement removes one unit of dish; reaching zero removes the entry.
func (c *Cart) Decrement(dish string) {
	c.SetQuantity(dish, c.Quantity(dish)-1)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = make(map[string]int)
}

// Count returns the number of units across all dishes.
func (c *Cart) Count() int {
	total := 0
	for _, quantity := range c.items {
		total += quantity
	}
	return total
}

// IsEmpty reports whether the cart holds nothing.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Line is one priced cart entry.
type Line struct {
	Dish      string          `json:"dish"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Lines prices every entry, sorted by dish name.
func (c *Cart) Lines(prices PriceLookup) []Line {
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]Line, 0, len(names))
	for _, name := range names {
		quantity := c.items[name]
		price := prices.Price(name)
		lines = append(lines, Line{
			Dish:      name,
			Quantity:  quantity,
			UnitPrice: price,
			Subtotal:  price.Mul(decimal.NewFromInt(int64(quantity))),
		})
	}
	return lines
}

// Total sums quantity times price over the cart.
func (c *Cart) Total(prices PriceLookup) decimal.Decimal {
	total := decimal.Zero
	for name, quantity := range c.items {
		total = total.Add(prices.Price(name).Mul(decimal.NewFromInt(int64(quantity))))
	}
	return total
}
