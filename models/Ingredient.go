package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Ingredient categories and units offered by the back office forms.
var (
	IngredientCategories = []string{"breads", "meats", "cheeses", "salads", "sauces", "extras", "drinks", "sides"}
	IngredientUnits      = []string{"unit", "kg", "liter", "slice", "portion", "sachet", "grams"}
)

// DefaultMinimum is applied when an ingredient is created without an explicit threshold.
const DefaultMinimum = 5

// DefaultUnitCost is the estimated cost used for ingredients that carry no unit_cost.
var DefaultUnitCost = decimal.NewFromInt(1)

// Ingredient is a tracked stock item referenced by dish recipes.
type Ingredient struct {
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Unit     string           `json:"unit"`
	Stock    int              `json:"stock"`
	Minimum  int              `json:"minimum"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// Cost returns the estimated cost of one unit of the ingredient.
func (i Ingredient) Cost() decimal.Decimal {
	if i.UnitCost == nil {
		return DefaultUnitCost
	}
	return *i.UnitCost
}

// ValidIngredientCategory reports whether value is one of IngredientCategories.
func ValidIngredientCategory(value string) bool {
	return contains(IngredientCategories, value)
}

// ValidIngredientUnit reports whether value is one of IngredientUnits.
func ValidIngredientUnit(value string) bool {
	return contains(IngredientUnits, value)
}

func contains(options []string, value string) bool {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, option := range options {
		if option == normalized {
			return true
		}
	}
	return false
}
