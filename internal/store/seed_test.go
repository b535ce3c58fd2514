package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultSeedIsConsistent(t *testing.T) {
	t.Parallel()

	data, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed() error = %v", err)
	}
	if len(data.Ingredients) != 16 {
		t.Fatalf("len(Ingredients) = %d, want 16", len(data.Ingredients))
	}
	if len(data.Dishes) != 3 {
		t.Fatalf("len(Dishes) = %d, want 3", len(data.Dishes))
	}

	known := make(map[string]bool, len(data.Ingredients))
	for _, ingredient := range data.Ingredients {
		if ingredient.UnitCost == nil {
			t.Fatalf("ingredient %q has no unit cost", ingredient.Name)
		}
		known[ingredient.Name] = true
	}
	for _, dish := range data.Dishes {
		if !dish.Price.GreaterThan(decimal.Zero) {
			t.Fatalf("dish %q has non-positive price %s", dish.Name, dish.Price)
		}
		if !dish.HasRecipe() {
			t.Fatalf("dish %q has no recipe", dish.Name)
		}
		for _, line := range dish.Recipe {
			if !known[line.Ingredient] {
				t.Fatalf("dish %q references unknown ingredient %q", dish.Name, line.Ingredient)
			}
			if line.Quantity < 1 {
				t.Fatalf("dish %q has quantity %d for %q", dish.Name, line.Quantity, line.Ingredient)
			}
		}
	}

	if !data.Dishes[0].Price.Equal(decimal.RequireFromString("18.90")) {
		t.Fatalf("first dish price = %s", data.Dishes[0].Price)
	}
}

func TestSeedFillsOnlyMissingCollections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newMemoryBackend()
	backend.documents[Dishes] = []byte(`[]`)

	if err := Seed(ctx, backend); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	repo := New(backend)
	if dishes := repo.Dishes(ctx); len(dishes) != 0 {
		t.Fatalf("existing empty dish collection was overwritten: %+v", dishes)
	}
	if ingredients := repo.Ingredients(ctx); len(ingredients) != 16 {
		t.Fatalf("len(Ingredients) = %d, want 16", len(ingredients))
	}
	if _, ok := backend.documents[StockOverrides]; !ok {
		t.Fatal("expected stock overrides collection to be written")
	}

	writes := backend.writes
	if err := Seed(ctx, backend); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if backend.writes != writes {
		t.Fatalf("second Seed() wrote %d collections, want 0", backend.writes-writes)
	}
}

func TestSeedSkipsUnreadableCollections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newMemoryBackend()
	backend.failing = map[Collection]error{Dishes: errors.New("permission denied")}

	if err := Seed(ctx, backend); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if _, ok := backend.documents[Dishes]; ok {
		t.Fatal("unreadable dish collection must not be overwritten")
	}
	if backend.writes != 2 {
		t.Fatalf("Seed() wrote %d collections, want 2", backend.writes)
	}

	backend = newMemoryBackend()
	backend.readErr = errors.New("disk offline")
	if err := Seed(ctx, backend); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if backend.writes != 0 {
		t.Fatalf("Seed() wrote %d collections with every read failing", backend.writes)
	}
}

func TestSeedPropagatesWriteErrors(t *testing.T) {
	t.Parallel()

	backend := newMemoryBackend()
	backend.writeErr = errors.New("disk full")

	if err := Seed(context.Background(), backend); !errors.Is(err, backend.writeErr) {
		t.Fatalf("Seed() error = %v, want wrapped write error", err)
	}
	if err := Seed(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil backend")
	}
}

func TestSeedWithFileBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newFileBackend(t)
	if err := Seed(ctx, backend); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if dishes := New(backend).Dishes(ctx); len(dishes) != 3 {
		t.Fatalf("len(Dishes) = %d, want 3", len(dishes))
	}
}
