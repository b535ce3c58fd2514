package admin

import (
	"context"

	"github.com/shopspring/decimal"

	"burgerexpress/internal/inventory"
	"burgerexpress/models"
)

var hundred = decimal.NewFromInt(100)

// DishReport is the back office view of one dish.
type DishReport struct {
	Name      string          `json:"name"`
	Category  models.Category `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"margin"`
	Available bool            `json:"available"`
	Shortages []string        `json:"shortages"`
}

// Report summarises stock alerts and per-dish economics.
type Report struct {
	IngredientCount int                 `json:"ingredient_count"`
	DishCount       int                 `json:"dish_count"`
	AlertCount      int                 `json:"alert_count"`
	LowStock        []models.Ingredient `json:"low_stock"`
	Dishes          []DishReport        `json:"dishes"`
}

// Report loads the collections and builds the back office report.
func (s *Service) Report(ctx context.Context) Report {
	return BuildReport(s.repo.Ingredients(ctx), s.repo.Dishes(ctx), s.repo.StockOverrides(ctx))
}

// BuildReport computes the report from raw collections.
func BuildReport(ingredients []models.Ingredient, dishes []models.Dish, overrides models.StockOverrides) Report {
	ledger := inventory.NewLedger(ingredients)
	low := ledger.LowStock()

	report := Report{
		IngredientCount: ledger.Len(),
		DishCount:       len(dishes),
		AlertCount:      len(low),
		LowStock:        low,
		Dishes:          make([]DishReport, 0, len(dishes)),
	}
	for _, dish := range dishes {
		cost := DishCost(dish, ledger)
		profit := dish.Price.Sub(cost)
		report.Dishes = append(report.Dishes, DishReport{
			Name:      dish.Name,
			Category:  dish.Category,
			Price:     dish.Price,
			Cost:      cost,
			Profit:    profit,
			Margin:    Margin(dish.Price, profit),
			Available: inventory.Resolve(dish, ledger, overrides).Available,
			Shortages: inventory.Shortages(dish, ledger),
		})
	}
	return report
}

// DishCost sums unit cost times quantity over the recipe. Ingredients missing
// from the ledger are costed at models.DefaultUnitCost.
func DishCost(dish models.Dish, ledger *inventory.Ledger) decimal.Decimal {
	total := decimal.Zero
	for _, line := range dish.Recipe {
		unitCost := models.DefaultUnitCost
		if ingredient, ok := ledger.FindByName(line.Ingredient); ok {
			unitCost = ingredient.Cost()
		}
		total = total.Add(unitCost.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Margin returns profit as a percentage of price, rounded to one decimal place.
// A zero price yields zero.
func Margin(price, profit decimal.Decimal) decimal.Decimal {
	if price.IsZero() {
		return decimal.Zero
	}
	return profit.Div(price).Mul(hundred).Round(1)
}
