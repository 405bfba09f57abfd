package catalog

import (
	"strconv"

	"github.com/bistrohub/ordering/pkg/enums"
	"github.com/shopspring/decimal"
)

// Ingredient is a named component of a meal.
type Ingredient struct {
	Name string               `json:"name"`
	Type enums.IngredientType `json:"type"`
}

// Promotion is a percentage discount attached to a catalog item.
type Promotion struct {
	ID                 int64  `json:"id"`
	Description        string `json:"description"`
	DiscountPercentage int    `json:"discountPercentage"`
}

// MealPromotion is a promotion restricted to a set of meal sizes.
type MealPromotion struct {
	Promotion
	Sizes []enums.Size `json:"sizes"`
}

// AppliesTo reports whether the promotion covers the given size.
func (p MealPromotion) AppliesTo(size enums.Size) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Meal is a menu meal with per-size prices.
type Meal struct {
	Name        string                         `json:"name"`
	Prices      map[enums.Size]decimal.Decimal `json:"prices"`
	Ingredients []Ingredient                   `json:"ingredients"`
	Promotions  []MealPromotion                `json:"promotions"`
}

// Price returns the base price for size. Sizes without a positive price are unavailable.
func (m Meal) Price(size enums.Size) (decimal.Decimal, bool) {
	price, ok := m.Prices[size]
	if !ok || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}

// AvailableSizes lists the sizes that carry a price, in menu order.
func (m Meal) AvailableSizes() []enums.Size {
	out := make([]enums.Size, 0, len(enums.Sizes))
	for _, size := range enums.Sizes {
		if _, ok := m.Price(size); ok {
			out = append(out, size)
		}
	}
	return out
}

// PromotionFor returns the first promotion in catalog order that covers size.
func (m Meal) PromotionFor(size enums.Size) *MealPromotion {
	for i := range m.Promotions {
		if m.Promotions[i].AppliesTo(size) {
			return &m.Promotions[i]
		}
	}
	return nil
}

// IngredientsOf returns the names of the meal's ingredients of the given type.
func (m Meal) IngredientsOf(kind enums.IngredientType) []string {
	var names []string
	for _, ing := range m.Ingredients {
		if ing.Type == kind {
			names = append(names, ing.Name)
		}
	}
	return names
}

// Beverage is one (name, capacity) row of the beverage menu.
type Beverage struct {
	Name      string          `json:"name"`
	Capacity  float64         `json:"capacity"`
	Price     decimal.Decimal `json:"price"`
	Promotion *Promotion      `json:"promotion,omitempty"`
}

// Addon is a menu extra sold by the piece.
type Addon struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Promotion *Promotion      `json:"promotion,omitempty"`
}

// CapacityKey renders a capacity in its canonical string form.
func CapacityKey(capacity float64) string {
	return strconv.FormatFloat(capacity, 'f', -1, 64)
}

// ParseCapacity is the inverse of CapacityKey.
func ParseCapacity(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}
