// Package inventory answers stock questions about ingredients and derives dish
// availability from recipes.
package inventory

import "burgerexpress/models"

// Ledger is a read-only view over the ingredient records. It is rebuilt from the
// record store before every availability check.
type Ledger struct {
	ingredients []models.Ingredient
}

// NewLedger copies ingredients into a Ledger, preserving their order.
func NewLedger(ingredients []models.Ingredient) *Ledger {
	copied := make([]models.Ingredient, len(ingredients))
	copy(copied, ingredients)
	return &Ledger{ingredients: copied}
}

// FindByName returns the ingredient with the exact name. When the records hold
// duplicates the first one wins.
func (l *Ledger) FindByName(name string) (models.Ingredient, bool) {
	if l == nil {
		return models.Ingredient{}, false
	}
	for _, ingredient := range l.ingredients {
		if ingredient.Name == name {
			return ingredient, true
		}
	}
	return models.Ingredient{}, false
}

// IsBelowMinimum reports whether stock has reached the alert threshold.
func IsBelowMinimum(ingredient models.Ingredient) bool {
	return ingredient.Stock <= ingredient.Minimum
}

// LowStock lists every ingredient at or below its minimum, in ledger order.
func (l *Ledger) LowStock() []models.Ingredient {
	low := []models.Ingredient{}
	if l == nil {
		return low
	}
	for _, ingredient := range l.ingredients {
		if IsBelowMinimum(ingredient) {
			low = append(low, ingredient)
		}
	}
	return low
}

// Ingredients returns a copy of the ledger contents.
func (l *Ledger) Ingredients() []models.Ingredient {
	if l == nil {
		return []models.Ingredient{}
	}
	copied := make([]models.Ingredient, len(l.ingredients))
	copy(copied, l.ingredients)
	return copied
}

// Len returns the number of ingredient records.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.ingredients)
}
