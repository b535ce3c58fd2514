package inventory

import "burgerexpress/models"

// Availability is the outcome of checking a dish against the ledger. Blocking
// names the first ingredient that prevents the dish from being sold.
type Availability struct {
	Available bool   `json:"available"`
	Blocking  string `json:"blocking,omitempty"`
}

func blocks(line models.RecipeLine, ledger *Ledger) bool {
	ingredient, ok := ledger.FindByName(line.Ingredient)
	return !ok || ingredient.Stock < line.Quantity
}

// Evaluate walks the recipe in order and stops at the first ingredient that is
// missing or short. A dish without a recipe is always available.
func Evaluate(dish models.Dish, ledger *Ledger) Availability {
	for _, line := range dish.Recipe {
		if blocks(line, ledger) {
			return Availability{Available: false, Blocking: line.Ingredient}
		}
	}
	return Availability{Available: true}
}

// Shortages lists every blocking ingredient of the recipe in recipe order.
func Shortages(dish models.Dish, ledger *Ledger) []string {
	missing := []string{}
	for _, line := range dish.Recipe {
		if blocks(line, ledger) {
			missing = append(missing, line.Ingredient)
		}
	}
	return missing
}

// Resolve is the storefront availability check. Recipes always decide; the legacy
// override only applies to dishes without a recipe.
func Resolve(dish models.Dish, ledger *Ledger, overrides models.StockOverrides) Availability {
	if dish.HasRecipe() {
		return Evaluate(dish, ledger)
	}
	if override, ok := overrides[dish.Name]; ok {
		return Availability{Available: override.Available()}
	}
	return Availability{Available: true}
}
