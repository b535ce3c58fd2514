package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are stored as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category groups dishes on the storefront menu.
type Category string

const (
	CategoryHamburgers Category = "hamburgers"
	CategoryDrinks     Category = "drinks"
	CategorySides      Category = "sides"
	CategoryDesserts   Category = "desserts"
)

// DefaultCategory is the menu tab shown to a fresh session.
const DefaultCategory = CategoryHamburgers

var categories = []Category{CategoryHamburgers, CategoryDrinks, CategorySides, CategoryDesserts}

// Categories returns the menu categories in display order.
func Categories() []Category {
	result := make([]Category, len(categories))
	copy(result, categories)
	return result
}

// ValidCategory reports whether value names a known menu category.
func ValidCategory(value string) bool {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, category := range categories {
		if category == normalized {
			return true
		}
	}
	return false
}

// NormalizeCategory returns the canonical category for value, falling back to DefaultCategory.
func NormalizeCategory(value string) Category {
	if !ValidCategory(value) {
		return DefaultCategory
	}
	return Category(strings.ToLower(strings.TrimSpace(value)))
}

// Label returns the menu tab caption for the category.
func (c Category) Label() string {
	switch c {
	case CategoryHamburgers:
		return "Hamburgers"
	case CategoryDrinks:
		return "Drinks"
	case CategorySides:
		return "Sides"
	case CategoryDesserts:
		return "Desserts"
	default:
		return string(c)
	}
}

// RecipeLine is one ingredient requirement of a dish.
type RecipeLine struct {
	Ingredient string `json:"ingredient"`
	Quantity   int    `json:"quantity"`
}

// Dish is a purchasable menu item.
type Dish struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category Category        `json:"category"`
	Image    string          `json:"image"`
	Recipe   []RecipeLine    `json:"recipe"`
}

// HasRecipe reports whether the dish declares at least one recipe line.
func (d Dish) HasRecipe() bool {
	return len(d.Recipe) > 0
}

// Uses reports whether the recipe references the named ingredient.
func (d Dish) Uses(ingredient string) bool {
	for _, line := range d.Recipe {
		if line.Ingredient == ingredient {
			return true
		}
	}
	return false
}
