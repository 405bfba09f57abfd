package enums

import "fmt"

// IngredientType classifies a meal ingredient.
type IngredientType string

const (
	IngredientTypeBread     IngredientType = "BREAD"
	IngredientTypeMeat      IngredientType = "MEAT"
	IngredientTypeVegetable IngredientType = "VEGETABLE"
	IngredientTypeSauce     IngredientType = "SAUCE"
	IngredientTypeOther     IngredientType = "OTHER"
)

var validIngredientTypes = []IngredientType{
	IngredientTypeBread,
	IngredientTypeMeat,
	IngredientTypeVegetable,
	IngredientTypeSauce,
	IngredientTypeOther,
}

// String implements fmt.Stringer.
func (i IngredientType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known IngredientType.
func (i IngredientType) IsValid() bool {
	for _, candidate := range validIngredientTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseIngredientType converts raw input into an IngredientType.
func ParseIngredientType(value string) (IngredientType, error) {
	for _, candidate := range validIngredientTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient type %q", value)
}
