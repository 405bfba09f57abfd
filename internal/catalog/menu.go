package catalog

import (
	"github.com/bistrohub/ordering/pkg/enums"
)

// NoIngredient fills a meat or sauce slot for meals that have no ingredient of that type.
const NoIngredient = "none"

// Menu is an immutable snapshot of the loaded catalog.
type Menu struct {
	meals       []Meal
	beverages   []Beverage
	addons      []Addon
	ingredients []Ingredient
}

// NewMenu builds a snapshot from the given lists. The slices are copied.
func NewMenu(meals []Meal, beverages []Beverage, addons []Addon, ingredients []Ingredient) Menu {
	return Menu{
		meals:       append([]Meal(nil), meals...),
		beverages:   append([]Beverage(nil), beverages...),
		addons:      append([]Addon(nil), addons...),
		ingredients: append([]Ingredient(nil), ingredients...),
	}
}

func (m Menu) Meals() []Meal {
	return append([]Meal(nil), m.meals...)
}

func (m Menu) Beverages() []Beverage {
	return append([]Beverage(nil), m.beverages...)
}

func (m Menu) Addons() []Addon {
	return append([]Addon(nil), m.addons...)
}

func (m Menu) Ingredients() []Ingredient {
	return append([]Ingredient(nil), m.ingredients...)
}

// IsEmpty reports whether nothing has been loaded.
func (m Menu) IsEmpty() bool {
	return len(m.meals) == 0 && len(m.beverages) == 0 && len(m.addons) == 0
}

func (m Menu) Meal(name string) (Meal, bool) {
	for _, meal := range m.meals {
		if meal.Name == name {
			return meal, true
		}
	}
	return Meal{}, false
}

func (m Menu) Beverage(name string, capacity float64) (Beverage, bool) {
	for _, bev := range m.beverages {
		if bev.Name == name && bev.Capacity == capacity {
			return bev, true
		}
	}
	return Beverage{}, false
}

// BeverageNames returns the distinct beverage names in catalog order.
func (m Menu) BeverageNames() []string {
	seen := make(map[string]struct{}, len(m.beverages))
	names := make([]string, 0, len(m.beverages))
	for _, bev := range m.beverages {
		if _, ok := seen[bev.Name]; ok {
			continue
		}
		seen[bev.Name] = struct{}{}
		names = append(names, bev.Name)
	}
	return names
}

// BeverageCapacities returns every catalog row sold under name.
func (m Menu) BeverageCapacities(name string) []Beverage {
	var out []Beverage
	for _, bev := range m.beverages {
		if bev.Name == name {
			out = append(out, bev)
		}
	}
	return out
}

func (m Menu) Addon(name string) (Addon, bool) {
	for _, addon := range m.addons {
		if addon.Name == name {
			return addon, true
		}
	}
	return Addon{}, false
}

// MeatOptions lists the meat choices for a meal, or the NoIngredient sentinel alone.
func (m Menu) MeatOptions(meal string) []string {
	return m.slotOptions(meal, enums.IngredientTypeMeat)
}

// SauceOptions lists the sauce choices for a meal, or the NoIngredient sentinel alone.
func (m Menu) SauceOptions(meal string) []string {
	return m.slotOptions(meal, enums.IngredientTypeSauce)
}

func (m Menu) slotOptions(meal string, kind enums.IngredientType) []string {
	found, ok := m.Meal(meal)
	if !ok {
		return nil
	}
	options := found.IngredientsOf(kind)
	if len(options) == 0 {
		return []string{NoIngredient}
	}
	return options
}

// IsValidChoice reports whether option is selectable for the given slot of meal.
func (m Menu) IsValidChoice(meal string, kind enums.IngredientType, option string) bool {
	for _, candidate := range m.slotOptions(meal, kind) {
		if candidate == option {
			return true
		}
	}
	return false
}
