// Package store persists the storefront's record collections. Every collection is
// read and written as a whole document; there are no partial updates and no
// transactions spanning collections, so concurrent writers resolve by last write wins.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	applog "burgerexpress/internal/log"
	"burgerexpress/models"
)

// Collection names a persisted record set.
type Collection string

const (
	Dishes         Collection = "dishes"
	Ingredients    Collection = "ingredients"
	StockOverrides Collection = "stock_overrides"
)

// Collections lists every collection the storefront persists.
func Collections() []Collection {
	return []Collection{Dishes, Ingredients, StockOverrides}
}

// ErrCollectionNotFound is returned by a Backend when a collection was never written.
var ErrCollectionNotFound = errors.New("store: collection not found")

// Backend reads and writes whole collection documents.
type Backend interface {
	Read(ctx context.Context, name Collection) ([]byte, error)
	Write(ctx context.Context, name Collection, document []byte) error
}

// Repository decodes collections into records. Unreadable or malformed
// collections are logged and treated as empty.
type Repository struct {
	backend Backend
}

// New wraps backend in a Repository.
func New(backend Backend) *Repository {
	return &Repository{backend: backend}
}

// Backend exposes the underlying document backend.
func (r *Repository) Backend() Backend {
	return r.backend
}

// Dishes loads the full dish collection.
func (r *Repository) Dishes(ctx context.Context) []models.Dish {
	dishes := load[[]models.Dish](ctx, r.backend, Dishes)
	if dishes == nil {
		return []models.Dish{}
	}
	for i := range dishes {
		if dishes[i].Recipe == nil {
			dishes[i].Recipe = []models.RecipeLine{}
		}
	}
	return dishes
}

// SaveDishes replaces the dish collection.
func (r *Repository) SaveDishes(ctx context.Context, dishes []models.Dish) error {
	if dishes == nil {
		dishes = []models.Dish{}
	}
	return save(ctx, r.backend, Dishes, dishes)
}

// Ingredients loads the full ingredient collection.
func (r *Repository) Ingredients(ctx context.Context) []models.Ingredient {
	ingredients := load[[]models.Ingredient](ctx, r.backend, Ingredients)
	if ingredients == nil {
		return []models.Ingredient{}
	}
	return ingredients
}

// SaveIngredients replaces the ingredient collection.
func (r *Repository) SaveIngredients(ctx context.Context, ingredients []models.Ingredient) error {
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	return save(ctx, r.backend, Ingredients, ingredients)
}

// StockOverrides loads the legacy per-dish override collection.
func (r *Repository) StockOverrides(ctx context.Context) models.StockOverrides {
	overrides := load[models.StockOverrides](ctx, r.backend, StockOverrides)
	if overrides == nil {
		return models.StockOverrides{}
	}
	return overrides
}

// SaveStockOverrides replaces the legacy override collection.
func (r *Repository) SaveStockOverrides(ctx context.Context, overrides models.StockOverrides) error {
	if overrides == nil {
		overrides = models.StockOverrides{}
	}
	return save(ctx, r.backend, StockOverrides, overrides)
}

func load[T any](ctx context.Context, backend Backend, name Collection) T {
	var zero T
	if backend == nil {
		applog.Error(ctx, "record store not configured, treating collection as empty", "collection", name)
		return zero
	}

	data, err := backend.Read(ctx, name)
	if err != nil {
		if errors.Is(err, ErrCollectionNotFound) {
			applog.Debug(ctx, "collection not found, treating as empty", "collection", name)
		} else {
			applog.Error(ctx, "failed to read collection, treating as empty", "collection", name, "error", err)
		}
		return zero
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return zero
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		applog.Error(ctx, "malformed collection, treating as empty", "collection", name, "error", err)
		return zero
	}
	return value
}

func save(ctx context.Context, backend Backend, name Collection, value any) error {
	if backend == nil {
		return fmt.Errorf("write %s: record store not configured", name)
	}
	document, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := backend.Write(ctx, name, document); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	applog.Debug(ctx, "collection written", "collection", name, "bytes", len(document))
	return nil
}
