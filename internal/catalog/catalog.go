// Package catalog provides lookups over the dish collection.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"burgerexpress/models"
)

// Catalog is an immutable snapshot of the dish collection.
type Catalog struct {
	dishes []models.Dish
}

// New copies dishes into a Catalog, preserving their order.
func New(dishes []models.Dish) *Catalog {
	copied := make([]models.Dish, len(dishes))
	copy(copied, dishes)
	return &Catalog{dishes: copied}
}

// Dishes returns every dish in stored order.
func (c *Catalog) Dishes() []models.Dish {
	if c == nil {
		return []models.Dish{}
	}
	copied := make([]models.Dish, len(c.dishes))
	copy(copied, c.dishes)
	return copied
}

// ByCategory returns the dishes of one menu category in stored order.
func (c *Catalog) ByCategory(category models.Category) []models.Dish {
	result := []models.Dish{}
	if c == nil {
		return result
	}
	for _, dish := range c.dishes {
		if dish.Category == category {
			result = append(result, dish)
		}
	}
	return result
}

// FindByName returns the dish with the exact name.
func (c *Catalog) FindByName(name string) (models.Dish, bool) {
	if c == nil {
		return models.Dish{}, false
	}
	for _, dish := range c.dishes {
		if dish.Name == name {
			return dish, true
		}
	}
	return models.Dish{}, false
}

// Contains reports whether a dish with the same name exists, ignoring case.
func (c *Catalog) Contains(name string) bool {
	if c == nil {
		return false
	}
	for _, dish := range c.dishes {
		if strings.EqualFold(dish.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Price returns the price of the named dish, or zero when it is not on the menu.
func (c *Catalog) Price(name string) decimal.Decimal {
	dish, ok := c.FindByName(name)
	if !ok {
		return decimal.Zero
	}
	return dish.Price
}

// DependentsOf lists, in catalog order, the dishes whose recipe uses ingredient.
func (c *Catalog) DependentsOf(ingredient string) []string {
	names := []string{}
	if c == nil {
		return names
	}
	for _, dish := range c.dishes {
		if dish.Uses(ingredient) {
			names = append(names, dish.Name)
		}
	}
	return names
}

// Len returns the number of dishes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.dishes)
}
