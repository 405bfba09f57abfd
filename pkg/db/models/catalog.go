package models

import (
	"github.com/bistrohub/ordering/pkg/enums"
	"github.com/shopspring/decimal"
)

// CatalogMeal is a meal row of the database-backed menu.
type CatalogMeal struct {
	ID          int64                   `gorm:"column:id;primaryKey"`
	Name        string                  `gorm:"column:name;not null;uniqueIndex"`
	Position    int                     `gorm:"column:position;not null;default:0"`
	Prices      []CatalogMealPrice      `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE"`
	Ingredients []CatalogMealIngredient `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE"`
	Promotions  []CatalogMealPromotion  `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE"`
}

func (CatalogMeal) TableName() string { return "catalog_meals" }

type CatalogMealPrice struct {
	ID     int64           `gorm:"column:id;primaryKey"`
	MealID int64           `gorm:"column:meal_id;not null"`
	Size   enums.Size      `gorm:"column:size;not null"`
	Price  decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}

func (CatalogMealPrice) TableName() string { return "catalog_meal_prices" }

type CatalogMealIngredient struct {
	ID       int64                `gorm:"column:id;primaryKey"`
	MealID   int64                `gorm:"column:meal_id;not null"`
	Position int                  `gorm:"column:position;not null;default:0"`
	Name     string               `gorm:"column:name;not null"`
	Type     enums.IngredientType `gorm:"column:type;not null"`
}

func (CatalogMealIngredient) TableName() string { return "catalog_meal_ingredients" }

// CatalogMealPromotion applies to the sizes listed in Sizes. Position fixes catalog order.
type CatalogMealPromotion struct {
	ID                 int64        `gorm:"column:id;primaryKey"`
	MealID             int64        `gorm:"column:meal_id;not null"`
	Position           int          `gorm:"column:position;not null;default:0"`
	Description        string       `gorm:"column:description"`
	DiscountPercentage int          `gorm:"column:discount_percentage;not null"`
	Sizes              []enums.Size `gorm:"column:sizes;type:jsonb;serializer:json"`
	Active             bool         `gorm:"column:active;not null;default:true"`
}

func (CatalogMealPromotion) TableName() string { return "catalog_meal_promotions" }

// CatalogPromotion is a single-item promotion referenced by beverages and addons.
type CatalogPromotion struct {
	ID                 int64  `gorm:"column:id;primaryKey"`
	Description        string `gorm:"column:description"`
	DiscountPercentage int    `gorm:"column:discount_percentage;not null"`
	Active             bool   `gorm:"column:active;not null;default:true"`
}

func (CatalogPromotion) TableName() string { return "catalog_promotions" }

type CatalogBeverage struct {
	ID          int64             `gorm:"column:id;primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Capacity    float64           `gorm:"column:capacity;not null"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	Position    int               `gorm:"column:position;not null;default:0"`
	PromotionID *int64            `gorm:"column:promotion_id"`
	Promotion   *CatalogPromotion `gorm:"foreignKey:PromotionID"`
}

func (CatalogBeverage) TableName() string { return "catalog_beverages" }

type CatalogAddon struct {
	ID          int64             `gorm:"column:id;primaryKey"`
	Name        string            `gorm:"column:name;not null;uniqueIndex"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	Position    int               `gorm:"column:position;not null;default:0"`
	PromotionID *int64            `gorm:"column:promotion_id"`
	Promotion   *CatalogPromotion `gorm:"foreignKey:PromotionID"`
}

func (CatalogAddon) TableName() string { return "catalog_addons" }

// CatalogIngredient is the standalone ingredient dictionary.
type CatalogIngredient struct {
	ID   int64                `gorm:"column:id;primaryKey"`
	Name string               `gorm:"column:name;not null;uniqueIndex"`
	Type enums.IngredientType `gorm:"column:type;not null"`
}

func (CatalogIngredient) TableName() string { return "catalog_ingredients" }
