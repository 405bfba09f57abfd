package catalog

import (
	"testing"

	"github.com/bistrohub/ordering/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeal() Meal {
	return Meal{
		Name: "Classic",
		Prices: map[enums.Size]decimal.Decimal{
			enums.SizeSmall:  decimal.RequireFromString("20.00"),
			enums.SizeMedium: decimal.RequireFromString("25.00"),
			enums.SizeLarge:  decimal.RequireFromString("30.00"),
			enums.SizeXL:     decimal.Zero,
		},
		Ingredients: []Ingredient{
			{Name: "bun", Type: enums.IngredientTypeBread},
			{Name: "beef", Type: enums.IngredientTypeMeat},
			{Name: "chicken", Type: enums.IngredientTypeMeat},
			{Name: "garlic", Type: enums.IngredientTypeSauce},
		},
		Promotions: []MealPromotion{
			{Promotion: Promotion{ID: 1, DiscountPercentage: 10}, Sizes: []enums.Size{enums.SizeMedium, enums.SizeLarge}},
			{Promotion: Promotion{ID: 2, DiscountPercentage: 50}, Sizes: []enums.Size{enums.SizeLarge}},
		},
	}
}

func TestMealPriceTreatsZeroAndMissingAsUnavailable(t *testing.T) {
	meal := sampleMeal()

	price, ok := meal.Price(enums.SizeSmall)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("20")))

	_, ok = meal.Price(enums.SizeXL)
	assert.False(t, ok)

	delete(meal.Prices, enums.SizeMedium)
	_, ok = meal.Price(enums.SizeMedium)
	assert.False(t, ok)

	assert.Equal(t, []enums.Size{enums.SizeSmall, enums.SizeLarge}, meal.AvailableSizes())
}

func TestMealPromotionForFirstMatchWins(t *testing.T) {
	meal := sampleMeal()

	promo := meal.PromotionFor(enums.SizeLarge)
	require.NotNil(t, promo)
	assert.Equal(t, int64(1), promo.ID)

	assert.Nil(t, meal.PromotionFor(enums.SizeSmall))
}

func TestMenuSlotOptionsFallBackToSentinel(t *testing.T) {
	veggie := Meal{
		Name:        "Veggie",
		Prices:      map[enums.Size]decimal.Decimal{enums.SizeSmall: decimal.NewFromInt(15)},
		Ingredients: []Ingredient{{Name: "tomato", Type: enums.IngredientTypeVegetable}},
	}
	menu := NewMenu([]Meal{sampleMeal(), veggie}, nil, nil, nil)

	assert.Equal(t, []string{"beef", "chicken"}, menu.MeatOptions("Classic"))
	assert.Equal(t, []string{"garlic"}, menu.SauceOptions("Classic"))
	assert.Equal(t, []string{NoIngredient}, menu.MeatOptions("Veggie"))
	assert.Equal(t, []string{NoIngredient}, menu.SauceOptions("Veggie"))
	assert.Nil(t, menu.MeatOptions("Unknown"))

	assert.True(t, menu.IsValidChoice("Classic", enums.IngredientTypeMeat, "chicken"))
	assert.False(t, menu.IsValidChoice("Classic", enums.IngredientTypeMeat, NoIngredient))
	assert.True(t, menu.IsValidChoice("Veggie", enums.IngredientTypeSauce, NoIngredient))
}

func TestMenuBeverageLookups(t *testing.T) {
	menu := NewMenu(nil, []Beverage{
		{Name: "Cola", Capacity: 0.33, Price: decimal.NewFromInt(6)},
		{Name: "Water", Capacity: 0.5, Price: decimal.NewFromInt(4)},
		{Name: "Cola", Capacity: 0.5, Price: decimal.NewFromInt(8)},
	}, []Addon{{Name: "Fries", Price: decimal.NewFromInt(9)}}, nil)

	assert.Equal(t, []string{"Cola", "Water"}, menu.BeverageNames())
	assert.Len(t, menu.BeverageCapacities("Cola"), 2)

	bev, ok := menu.Beverage("Cola", 0.5)
	require.True(t, ok)
	assert.True(t, bev.Price.Equal(decimal.NewFromInt(8)))

	_, ok = menu.Beverage("Cola", 1)
	assert.False(t, ok)

	_, ok = menu.Addon("Fries")
	assert.True(t, ok)
	assert.False(t, menu.IsEmpty())
	assert.True(t, Menu{}.IsEmpty())
}

func TestCapacityKeyRoundTrip(t *testing.T) {
	assert.Equal(t, "0.5", CapacityKey(0.5))
	assert.Equal(t, "1", CapacityKey(1))
	assert.Equal(t, "0.33", CapacityKey(0.33))

	got, err := ParseCapacity("0.33")
	require.NoError(t, err)
	assert.Equal(t, 0.33, got)

	_, err = ParseCapacity("half")
	assert.Error(t, err)
}
