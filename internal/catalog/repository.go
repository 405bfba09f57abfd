package catalog

import (
	"context"
	"fmt"

	"github.com/bistrohub/ordering/internal/repo"
	"github.com/bistrohub/ordering/pkg/db/models"
	"github.com/bistrohub/ordering/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository serves the menu from the catalog tables.
type Repository struct {
	repo.Base
}

// NewRepository binds a repository to the provided GORM connection.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db required")
	}
	return &Repository{Base: repo.NewBase(db)}, nil
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

func activeByPosition(db *gorm.DB) *gorm.DB {
	return byPosition(db).Where("active = ?", true)
}

func byName(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC")
}

func withPromotion(db *gorm.DB) *gorm.DB {
	return db.Preload("Promotion")
}

func (r *Repository) GetMeals(ctx context.Context) ([]Meal, error) {
	var rows []models.CatalogMeal
	err := r.FindAll(ctx, "catalog meals", &rows, byPosition, func(db *gorm.DB) *gorm.DB {
		return db.
			Preload("Prices").
			Preload("Ingredients", byPosition).
			Preload("Promotions", activeByPosition)
	})
	if err != nil {
		return nil, err
	}

	out := make([]Meal, 0, len(rows))
	for _, row := range rows {
		meal := Meal{
			Name:        row.Name,
			Prices:      make(map[enums.Size]decimal.Decimal, len(row.Prices)),
			Ingredients: make([]Ingredient, 0, len(row.Ingredients)),
			Promotions:  make([]MealPromotion, 0, len(row.Promotions)),
		}
		for _, p := range row.Prices {
			meal.Prices[p.Size] = p.Price
		}
		for _, ing := range row.Ingredients {
			meal.Ingredients = append(meal.Ingredients, Ingredient{Name: ing.Name, Type: ing.Type})
		}
		for _, promo := range row.Promotions {
			meal.Promotions = append(meal.Promotions, MealPromotion{
				Promotion: Promotion{
					ID:                 promo.ID,
					Description:        promo.Description,
					DiscountPercentage: promo.DiscountPercentage,
				},
				Sizes: promo.Sizes,
			})
		}
		out = append(out, meal)
	}
	return out, nil
}

func (r *Repository) GetBeverages(ctx context.Context) ([]Beverage, error) {
	var rows []models.CatalogBeverage
	if err := r.FindAll(ctx, "catalog beverages", &rows, byPosition, withPromotion); err != nil {
		return nil, err
	}

	out := make([]Beverage, 0, len(rows))
	for _, row := range rows {
		out = append(out, Beverage{
			Name:      row.Name,
			Capacity:  row.Capacity,
			Price:     row.Price,
			Promotion: toPromotion(row.Promotion),
		})
	}
	return out, nil
}

func (r *Repository) GetAddons(ctx context.Context) ([]Addon, error) {
	var rows []models.CatalogAddon
	if err := r.FindAll(ctx, "catalog addons", &rows, byPosition, withPromotion); err != nil {
		return nil, err
	}

	out := make([]Addon, 0, len(rows))
	for _, row := range rows {
		out = append(out, Addon{
			Name:      row.Name,
			Price:     row.Price,
			Promotion: toPromotion(row.Promotion),
		})
	}
	return out, nil
}

func (r *Repository) GetIngredients(ctx context.Context) ([]Ingredient, error) {
	var rows []models.CatalogIngredient
	if err := r.FindAll(ctx, "catalog ingredients", &rows, byName); err != nil {
		return nil, err
	}

	out := make([]Ingredient, 0, len(rows))
	for _, row := range rows {
		out = append(out, Ingredient{Name: row.Name, Type: row.Type})
	}
	return out, nil
}

func toPromotion(row *models.CatalogPromotion) *Promotion {
	if row == nil || !row.Active {
		return nil
	}
	return &Promotion{
		ID:                 row.ID,
		Description:        row.Description,
		DiscountPercentage: row.DiscountPercentage,
	}
}
