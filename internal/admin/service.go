// Package admin implements the back office mutations. Every operation reloads
// the collections it touches, validates, and rewrites them whole. Validation
// failures abort before anything is written.
package admin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"burgerexpress/internal/catalog"
	"burgerexpress/internal/images"
	"burgerexpress/internal/inventory"
	applog "burgerexpress/internal/log"
	"burgerexpress/internal/restock"
	"burgerexpress/models"
)

// Repository is the record store used by the back office.
type Repository interface {
	Dishes(ctx context.Context) []models.Dish
	SaveDishes(ctx context.Context, dishes []models.Dish) error
	Ingredients(ctx context.Context) []models.Ingredient
	SaveIngredients(ctx context.Context, ingredients []models.Ingredient) error
	StockOverrides(ctx context.Context) models.StockOverrides
	SaveStockOverrides(ctx context.Context, overrides models.StockOverrides) error
}

// Service performs back office operations against a Repository.
type Service struct {
	repo   Repository
	images images.Store
}

// NewService wires the back office to its record store and image store.
func NewService(repo Repository, imageStore images.Store) *Service {
	return &Service{repo: repo, images: imageStore}
}

// Ingredients returns the ingredient records in stored order.
func (s *Service) Ingredients(ctx context.Context) []models.Ingredient {
	return s.repo.Ingredients(ctx)
}

// Dishes returns the dish records in stored order.
func (s *Service) Dishes(ctx context.Context) []models.Dish {
	return s.repo.Dishes(ctx)
}

// IngredientInput carries the fields of a new ingredient. A nil Minimum applies
// models.DefaultMinimum.
type IngredientInput struct {
	Name     string
	Category string
	Unit     string
	Stock    int
	Minimum  *int
	UnitCost *decimal.Decimal
}

// AddIngredient validates and appends a new ingredient.
func (s *Service) AddIngredient(ctx context.Context, in IngredientInput) (models.Ingredient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Ingredient{}, invalid("name", "ingredient name is required")
	}
	if !models.ValidIngredientCategory(in.Category) {
		return models.Ingredient{}, invalid("category", "unknown ingredient category %q", in.Category)
	}
	if !models.ValidIngredientUnit(in.Unit) {
		return models.Ingredient{}, invalid("unit", "unknown unit %q", in.Unit)
	}
	if in.Stock < 0 {
		return models.Ingredient{}, invalid("stock", "stock must not be negative")
	}
	minimum := models.DefaultMinimum
	if in.Minimum != nil {
		minimum = *in.Minimum
	}
	if minimum < 1 {
		return models.Ingredient{}, invalid("minimum", "minimum must be at least 1")
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return models.Ingredient{}, invalid("unit_cost", "unit cost must not be negative")
	}

	ingredients := s.repo.Ingredients(ctx)
	for _, existing := range ingredients {
		if strings.EqualFold(existing.Name, name) {
			return models.Ingredient{}, invalid("name", "ingredient %q already exists", existing.Name)
		}
	}

	ingredient := models.Ingredient{
		Name:     name,
		Category: strings.ToLower(strings.TrimSpace(in.Category)),
		Unit:     strings.ToLower(strings.TrimSpace(in.Unit)),
		Stock:    in.Stock,
		Minimum:  minimum,
		UnitCost: in.UnitCost,
	}
	if err := s.repo.SaveIngredients(ctx, append(ingredients, ingredient)); err != nil {
		return models.Ingredient{}, fmt.Errorf("add ingredient: %w", err)
	}
	applog.Info(ctx, "ingredient added", "ingredient", ingredient.Name, "stock", ingredient.Stock)
	return ingredient, nil
}

// EditIngredient replaces the stock and minimum of an existing ingredient.
func (s *Service) EditIngredient(ctx context.Context, name string, stock, minimum int) (models.Ingredient, error) {
	if stock < 0 {
		return models.Ingredient{}, invalid("stock", "stock must not be negative")
	}
	if minimum < 1 {
		return models.Ingredient{}, invalid("minimum", "minimum must be at least 1")
	}

	ingredients := s.repo.Ingredients(ctx)
	index := indexOfIngredient(ingredients, name)
	if index < 0 {
		return models.Ingredient{}, fmt.Errorf("ingredient %q: %w", name, ErrNotFound)
	}

	ingredients[index].Stock = stock
	ingredients[index].Minimum = minimum
	if err := s.repo.SaveIngredients(ctx, ingredients); err != nil {
		return models.Ingredient{}, fmt.Errorf("edit ingredient: %w", err)
	}
	applog.Info(ctx, "ingredient updated", "ingredient", name, "stock", stock, "minimum", minimum)
	return ingredients[index], nil
}

// DeleteIngredient removes an ingredient no recipe references.
func (s *Service) DeleteIngredient(ctx context.Context, name string) error {
	ingredients := s.repo.Ingredients(ctx)
	index := indexOfIngredient(ingredients, name)
	if index < 0 {
		return fmt.Errorf("ingredient %q: %w", name, ErrNotFound)
	}

	if dependents := catalog.New(s.repo.Dishes(ctx)).DependentsOf(ingredients[index].Name); len(dependents) > 0 {
		return &DependencyError{Ingredient: ingredients[index].Name, Dishes: dependents}
	}

	remaining := append(ingredients[:index:index], ingredients[index+1:]...)
	if err := s.repo.SaveIngredients(ctx, remaining); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	applog.Info(ctx, "ingredient deleted", "ingredient", name)
	return nil
}

func indexOfIngredient(ingredients []models.Ingredient, name string) int {
	for i, ingredient := range ingredients {
		if ingredient.Name == name {
			return i
		}
	}
	return -1
}

// DishInput carries the fields of a new dish together with its photo upload.
type DishInput struct {
	Name      string
	Price     decimal.Decimal
	Category  string
	Recipe    []models.RecipeLine
	ImageName string
	Image     []byte
}

// AddDish validates a new dish, stores its photo, persists it and writes its
// default stock override.
func (s *Service) AddDish(ctx context.Context, in DishInput) (models.Dish, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Dish{}, invalid("name", "dish name is required")
	}
	if !in.Price.IsPositive() {
		return models.Dish{}, invalid("price", "price must be greater than zero")
	}
	if !models.ValidCategory(in.Category) {
		return models.Dish{}, invalid("category", "unknown category %q", in.Category)
	}
	if len(in.Recipe) == 0 {
		return models.Dish{}, invalid("recipe", "at least one ingredient is required")
	}

	ledger := inventory.NewLedger(s.repo.Ingredients(ctx))
	recipe := make([]models.RecipeLine, 0, len(in.Recipe))
	seen := make(map[string]bool, len(in.Recipe))
	for _, line := range in.Recipe {
		ingredient := strings.TrimSpace(line.Ingredient)
		if _, ok := ledger.FindByName(ingredient); !ok {
			return models.Dish{}, invalid("recipe", "unknown ingredient %q", line.Ingredient)
		}
		if line.Quantity < 1 {
			return models.Dish{}, invalid("recipe", "quantity for %q must be at least 1", ingredient)
		}
		if seen[ingredient] {
			return models.Dish{}, invalid("recipe", "ingredient %q is listed more than once", ingredient)
		}
		seen[ingredient] = true
		recipe = append(recipe, models.RecipeLine{Ingredient: ingredient, Quantity: line.Quantity})
	}

	if len(in.Image) == 0 {
		return models.Dish{}, invalid("image", "an image is required")
	}
	objectName, err := images.ObjectName(name, in.ImageName)
	if err != nil {
		return models.Dish{}, invalid("image", "%s", err.Error())
	}

	dishes := s.repo.Dishes(ctx)
	if catalog.New(dishes).Contains(name) {
		return models.Dish{}, invalid("name", "dish %q already exists", name)
	}
	for _, existing := range dishes {
		if existing.Image == objectName {
			return models.Dish{}, invalid("name", "dish %q already uses the photo %s", existing.Name, objectName)
		}
	}

	if s.images == nil {
		return models.Dish{}, errors.New("add dish: image store not configured")
	}
	ref, err := s.images.Save(ctx, objectName, in.Image)
	if err != nil {
		return models.Dish{}, fmt.Errorf("add dish: %w", err)
	}

	dish := models.Dish{
		Name:     name,
		Price:    in.Price,
		Category: models.NormalizeCategory(in.Category),
		Image:    ref,
		Recipe:   recipe,
	}
	if err := s.repo.SaveDishes(ctx, append(dishes, dish)); err != nil {
		return models.Dish{}, fmt.Errorf("add dish: %w", err)
	}

	overrides := s.repo.StockOverrides(ctx)
	overrides[dish.Name] = models.DefaultStockOverride()
	if err := s.repo.SaveStockOverrides(ctx, overrides); err != nil {
		return models.Dish{}, fmt.Errorf("add dish override: %w", err)
	}

	applog.Info(ctx, "dish added", "dish", dish.Name, "price", dish.Price.StringFixed(2), "image", ref)
	return dish, nil
}

// DeleteDish removes a dish and its stock override.
func (s *Service) DeleteDish(ctx context.Context, name string) error {
	dishes := s.repo.Dishes(ctx)
	index := -1
	for i, dish := range dishes {
		if dish.Name == name {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("dish %q: %w", name, ErrNotFound)
	}

	remaining := append(dishes[:index:index], dishes[index+1:]...)
	if err := s.repo.SaveDishes(ctx, remaining); err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}

	overrides := s.repo.StockOverrides(ctx)
	if _, ok := overrides[name]; ok {
		delete(overrides, name)
		if err := s.repo.SaveStockOverrides(ctx, overrides); err != nil {
			return fmt.Errorf("delete dish override: %w", err)
		}
	}
	applog.Info(ctx, "dish deleted", "dish", name)
	return nil
}

// EditDish is not supported; a dish is changed by deleting and re-adding it.
func (s *Service) EditDish(ctx context.Context, name string, _ DishInput) error {
	applog.Debug(ctx, "dish edit requested", "dish", name)
	return ErrEditDishNotImplemented
}

// RestockResult reports what a delivery note changed.
type RestockResult struct {
	Applied  []restock.Line `json:"applied"`
	Unknown  []string       `json:"unknown"`
	Overflow []restock.Line `json:"overflow"`
}

// Restock adds each line's quantity to the matching ingredient. Names match
// exactly first and then ignoring case; unmatched names are reported back, as
// are lines whose quantity would push the stock past math.MaxInt.
func (s *Service) Restock(ctx context.Context, lines []restock.Line) (RestockResult, error) {
	result := RestockResult{Applied: []restock.Line{}, Unknown: []string{}, Overflow: []restock.Line{}}
	ingredients := s.repo.Ingredients(ctx)

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		index := indexOfIngredient(ingredients, line.Ingredient)
		if index < 0 {
			for i, ingredient := range ingredients {
				if strings.EqualFold(ingredient.Name, strings.TrimSpace(line.Ingredient)) {
					index = i
					break
				}
			}
		}
		if index < 0 {
			result.Unknown = append(result.Unknown, line.Ingredient)
			continue
		}
		if line.Quantity > math.MaxInt-ingredients[index].Stock {
			applog.Warn(ctx, "restock line exceeds stock limit", "ingredient", ingredients[index].Name, "quantity", line.Quantity)
			result.Overflow = append(result.Overflow, restock.Line{Ingredient: ingredients[index].Name, Quantity: line.Quantity})
			continue
		}
		ingredients[index].Stock += line.Quantity
		result.Applied = append(result.Applied, restock.Line{Ingredient: ingredients[index].Name, Quantity: line.Quantity})
	}

	if len(result.Applied) == 0 {
		return result, nil
	}
	if err := s.repo.SaveIngredients(ctx, ingredients); err != nil {
		return RestockResult{}, fmt.Errorf("restock: %w", err)
	}
	applog.Info(ctx, "restock applied", "lines", len(result.Applied), "unknown", len(result.Unknown), "overflow", len(result.Overflow))
	return result, nil
}
