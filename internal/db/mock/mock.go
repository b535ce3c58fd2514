package mock

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"burgerexpress/internal/db"
	applog "burgerexpress/internal/log"
	"burgerexpress/internal/store"
	"burgerexpress/models"
)

// New returns an in-memory sqlite database holding the default menu plus a few
// demo records that show every availability state on the storefront.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:burgerexpress-mock?mode=memory&cache=shared"), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	backend, err := store.NewGormBackend(database)
	if err != nil {
		return err
	}
	if _, err := backend.Read(ctx, store.Dishes); err == nil {
		applog.Debug(ctx, "mock database already seeded")
		return nil
	}

	if err := store.Seed(ctx, backend); err != nil {
		return err
	}

	repo := store.New(backend)

	ingredients := repo.Ingredients(ctx)
	for i := range ingredients {
		if ingredients[i].Name == "Potato Sticks" {
			ingredients[i].Stock = 0
		}
	}
	if err := repo.SaveIngredients(ctx, ingredients); err != nil {
		return err
	}

	dishes := append(repo.Dishes(ctx),
		models.Dish{
			Name:     "Cola 2L",
			Price:    decimal.RequireFromString("12.00"),
			Category: models.CategoryDrinks,
			Image:    "cola_2l.png",
			Recipe:   []models.RecipeLine{{Ingredient: "Cola 2L", Quantity: 1}},
		},
		models.Dish{
			Name:     "Crispy Potatoes",
			Price:    decimal.RequireFromString("9.50"),
			Category: models.CategorySides,
			Image:    "crispy_potatoes.jpg",
			Recipe:   []models.RecipeLine{{Ingredient: "Potato Sticks", Quantity: 2}},
		},
		models.Dish{
			Name:     "Chocolate Brownie",
			Price:    decimal.RequireFromString("8.00"),
			Category: models.CategoryDesserts,
			Image:    "chocolate_brownie.jpg",
			Recipe:   []models.RecipeLine{},
		},
	)
	if err := repo.SaveDishes(ctx, dishes); err != nil {
		return err
	}

	overrides := repo.StockOverrides(ctx)
	overrides["Chocolate Brownie"] = models.StockOverride{Quantity: 0, Minimum: 5, Active: true}
	if err := repo.SaveStockOverrides(ctx, overrides); err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
