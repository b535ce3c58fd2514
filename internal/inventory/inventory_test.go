package inventory

import (
	"reflect"
	"testing"

	"burgerexpress/models"
)

func sampleLedger() *Ledger {
	return NewLedger([]models.Ingredient{
		{Name: "Bun", Stock: 0, Minimum: 5},
		{Name: "Patty", Stock: 10, Minimum: 5},
		{Name: "Cheese", Stock: 5, Minimum: 5},
		{Name: "Bun", Stock: 99, Minimum: 1},
	})
}

func TestFindByNameFirstMatchWins(t *testing.T) {
	t.Parallel()

	ledger := sampleLedger()
	bun, ok := ledger.FindByName("Bun")
	if !ok || bun.Stock != 0 {
		t.Fatalf("FindByName(Bun) = %+v, %t", bun, ok)
	}
	if _, ok := ledger.FindByName("bun"); ok {
		t.Fatal("expected lookup to be case sensitive")
	}

	var nilLedger *Ledger
	if _, ok := nilLedger.FindByName("Bun"); ok {
		t.Fatal("expected nil ledger lookup to miss")
	}
}

func TestIsBelowMinimum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stock int
		min   int
		want  bool
	}{
		{"below", 2, 5, true},
		{"equal", 5, 5, true},
		{"above", 6, 5, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsBelowMinimum(models.Ingredient{Stock: tt.stock, Minimum: tt.min})
			if got != tt.want {
				t.Fatalf("IsBelowMinimum(stock=%d, min=%d) = %t, want %t", tt.stock, tt.min, got, tt.want)
			}
		})
	}
}

func TestLowStockKeepsLedgerOrder(t *testing.T) {
	t.Parallel()

	low := sampleLedger().LowStock()
	names := make([]string, 0, len(low))
	for _, ingredient := range low {
		names = append(names, ingredient.Name)
	}
	if want := []string{"Bun", "Cheese"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("LowStock() = %v, want %v", names, want)
	}

	if got := NewLedger(nil).LowStock(); got == nil || len(got) != 0 {
		t.Fatalf("LowStock() on empty ledger = %#v", got)
	}
}

func TestEvaluateReportsFirstBlocker(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]models.Ingredient{
		{Name: "Bun", Stock: 0, Minimum: 5},
		{Name: "Patty", Stock: 10, Minimum: 5},
	})
	dish := models.Dish{Name: "Classic", Recipe: []models.RecipeLine{
		{Ingredient: "Bun", Quantity: 1},
		{Ingredient: "Patty", Quantity: 1},
	}}

	got := Evaluate(dish, ledger)
	if got.Available || got.Blocking != "Bun" {
		t.Fatalf("Evaluate() = %+v, want unavailable blocked by Bun", got)
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]models.Ingredient{
		{Name: "Bun", Stock: 3, Minimum: 1},
		{Name: "Patty", Stock: 1, Minimum: 1},
	})

	tests := []struct {
		name     string
		recipe   []models.RecipeLine
		want     Availability
		shortage []string
	}{
		{"empty recipe", nil, Availability{Available: true}, []string{}},
		{"exact stock", []models.RecipeLine{{Ingredient: "Bun", Quantity: 3}}, Availability{Available: true}, []string{}},
		{"insufficient", []models.RecipeLine{{Ingredient: "Patty", Quantity: 2}}, Availability{Blocking: "Patty"}, []string{"Patty"}},
		{"missing ingredient", []models.RecipeLine{{Ingredient: "Pickles", Quantity: 1}}, Availability{Blocking: "Pickles"}, []string{"Pickles"}},
		{
			"several blockers",
			[]models.RecipeLine{
				{Ingredient: "Pickles", Quantity: 1},
				{Ingredient: "Bun", Quantity: 1},
				{Ingredient: "Patty", Quantity: 5},
			},
			Availability{Blocking: "Pickles"},
			[]string{"Pickles", "Patty"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dish := models.Dish{Name: "Dish", Recipe: tt.recipe}
			if got := Evaluate(dish, ledger); got != tt.want {
				t.Fatalf("Evaluate() = %+v, want %+v", got, tt.want)
			}
			if got := Shortages(dish, ledger); !reflect.DeepEqual(got, tt.shortage) {
				t.Fatalf("Shortages() = %v, want %v", got, tt.shortage)
			}
		})
	}
}

func TestResolveIgnoresOverridesForRecipes(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]models.Ingredient{{Name: "Bun", Stock: 5, Minimum: 1}})
	overrides := models.StockOverrides{
		"Classic": {Quantity: 0, Minimum: 5, Active: false},
		"Soda":    {Quantity: 0, Minimum: 5, Active: true},
		"Juice":   {Quantity: 3, Minimum: 5, Active: false},
		"Water":   {Quantity: 3, Minimum: 5, Active: true},
	}

	tests := []struct {
		name   string
		dish   models.Dish
		wantOK bool
	}{
		{"recipe beats inactive override", models.Dish{Name: "Classic", Recipe: []models.RecipeLine{{Ingredient: "Bun", Quantity: 1}}}, true},
		{"empty recipe with zero quantity", models.Dish{Name: "Soda"}, false},
		{"empty recipe with inactive override", models.Dish{Name: "Juice"}, false},
		{"empty recipe with live override", models.Dish{Name: "Water"}, true},
		{"empty recipe without override", models.Dish{Name: "Coffee"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(tt.dish, ledger, overrides)
			if got.Available != tt.wantOK {
				t.Fatalf("Resolve(%s) = %+v, want available=%t", tt.dish.Name, got, tt.wantOK)
			}
		})
	}
}
