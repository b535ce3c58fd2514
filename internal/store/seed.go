package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	applog "burgerexpress/internal/log"
	"burgerexpress/models"
)

//go:embed seed.yaml
var seedDocument []byte

type seedIngredient struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Unit     string `yaml:"unit"`
	Stock    int    `yaml:"stock"`
	Minimum  int    `yaml:"minimum"`
	UnitCost string `yaml:"unit_cost"`
}

type seedDish struct {
	Name     string              `yaml:"name"`
	Price    string              `yaml:"price"`
	Category string              `yaml:"category"`
	Image    string              `yaml:"image"`
	Recipe   []models.RecipeLine `yaml:"recipe"`
}

type seedFile struct {
	Ingredients []seedIngredient `yaml:"ingredients"`
	Dishes      []seedDish       `yaml:"dishes"`
}

// SeedData holds the default records written to an empty store.
type SeedData struct {
	Ingredients []models.Ingredient
	Dishes      []models.Dish
}

// DefaultSeed decodes the embedded default records.
func DefaultSeed() (SeedData, error) {
	var file seedFile
	if err := yaml.Unmarshal(seedDocument, &file); err != nil {
		return SeedData{}, fmt.Errorf("decode seed data: %w", err)
	}

	data := SeedData{
		Ingredients: make([]models.Ingredient, 0, len(file.Ingredients)),
		Dishes:      make([]models.Dish, 0, len(file.Dishes)),
	}
	for _, item := range file.Ingredients {
		ingredient := models.Ingredient{
			Name:     item.Name,
			Category: item.Category,
			Unit:     item.Unit,
			Stock:    item.Stock,
			Minimum:  item.Minimum,
		}
		if item.UnitCost != "" {
			cost, err := decimal.NewFromString(item.UnitCost)
			if err != nil {
				return SeedData{}, fmt.Errorf("seed ingredient %q: invalid unit cost: %w", item.Name, err)
			}
			ingredient.UnitCost = &cost
		}
		data.Ingredients = append(data.Ingredients, ingredient)
	}
	for _, item := range file.Dishes {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return SeedData{}, fmt.Errorf("seed dish %q: invalid price: %w", item.Name, err)
		}
		recipe := item.Recipe
		if recipe == nil {
			recipe = []models.RecipeLine{}
		}
		data.Dishes = append(data.Dishes, models.Dish{
			Name:     item.Name,
			Price:    price,
			Category: models.NormalizeCategory(item.Category),
			Image:    item.Image,
			Recipe:   recipe,
		})
	}
	return data, nil
}

// Seed writes the default records into every collection the backend has never
// stored. Existing collections, including empty ones, are left untouched, and so
// are collections that cannot be read.
func Seed(ctx context.Context, backend Backend) error {
	if backend == nil {
		return errors.New("seed: record store not configured")
	}

	data, err := DefaultSeed()
	if err != nil {
		return err
	}

	for _, name := range Collections() {
		_, err := backend.Read(ctx, name)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, ErrCollectionNotFound):
			applog.Error(ctx, "failed to read collection, leaving it unseeded", "collection", name, "error", err)
			continue
		}

		var value any
		switch name {
		case Ingredients:
			value = data.Ingredients
		case Dishes:
			value = data.Dishes
		case StockOverrides:
			value = models.StockOverrides{}
		}
		if err := save(ctx, backend, name, value); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		applog.Info(ctx, "seeded collection with defaults", "collection", name)
	}
	return nil
}
