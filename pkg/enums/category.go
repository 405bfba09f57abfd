package enums

import "fmt"

// Category is a top-level menu section offered by the wizard.
type Category string

const (
	CategoryMeals     Category = "MEALS"
	CategoryBeverages Category = "BEVERAGES"
	CategoryAddons    Category = "ADDONS"
)

// Categories lists the menu sections in display order.
var Categories = []Category{
	CategoryMeals,
	CategoryBeverages,
	CategoryAddons,
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts raw input into a Category.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range Categories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}
