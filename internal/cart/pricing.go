package cart

import (
	"fmt"

	"github.com/bistrohub/ordering/internal/catalog"
	"github.com/bistrohub/ordering/pkg/enums"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/shopspring/decimal"
)

// Catalog is the pricing source the cart consults on every mutation.
type Catalog interface {
	Meal(name string) (catalog.Meal, bool)
	Beverage(name string, capacity float64) (catalog.Beverage, bool)
	Addon(name string) (catalog.Addon, bool)
}

var hundred = decimal.NewFromInt(100)

// EffectivePrice applies a percentage discount to base and rounds to cents.
// Percentages outside [0, 100] are clamped.
func EffectivePrice(base decimal.Decimal, discountPercentage int) decimal.Decimal {
	pct := discountPercentage
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return base.Mul(decimal.NewFromInt(int64(100 - pct))).Div(hundred).Round(2)
}

func lineAmount(quantity int, unit decimal.Decimal) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

func mealUnitPrice(cat Catalog, name string, size enums.Size) (decimal.Decimal, error) {
	meal, ok := cat.Meal(name)
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("meal %q not found", name))
	}
	base, ok := meal.Price(size)
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %s is not available for %q", size, name)).
			WithDetails(map[string]string{"size": "unavailable"})
	}
	pct := 0
	if promo := meal.PromotionFor(size); promo != nil {
		pct = promo.DiscountPercentage
	}
	return EffectivePrice(base, pct), nil
}

func beverageUnitPrice(cat Catalog, name string, capacity float64) (decimal.Decimal, error) {
	bev, ok := cat.Beverage(name, capacity)
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("beverage %q (%sL) not found", name, catalog.CapacityKey(capacity)))
	}
	return EffectivePrice(bev.Price, promotionPercentage(bev.Promotion)), nil
}

func addonUnitPrice(cat Catalog, name string) (decimal.Decimal, error) {
	addon, ok := cat.Addon(name)
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("addon %q not found", name))
	}
	return EffectivePrice(addon.Price, promotionPercentage(addon.Promotion)), nil
}

func promotionPercentage(p *catalog.Promotion) int {
	if p == nil {
		return 0
	}
	return p.DiscountPercentage
}

// QuantityDetails is attached to QUANTITY_OUT_OF_RANGE errors.
type QuantityDetails struct {
	Requested int `json:"requested"`
	Current   int `json:"current"`
	Max       int `json:"max"`
}

func checkQuantity(requested, current, max int) error {
	if requested >= 1 && requested <= max && current+requested <= max {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeQuantityOutOfRange, fmt.Sprintf("quantity must keep the line between 1 and %d", max)).
		WithDetails(QuantityDetails{Requested: requested, Current: current, Max: max})
}
