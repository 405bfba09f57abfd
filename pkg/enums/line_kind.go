package enums

import "fmt"

// LineKind distinguishes the three families of cart lines.
type LineKind string

const (
	LineKindMeal     LineKind = "meal"
	LineKindBeverage LineKind = "beverage"
	LineKindAddon    LineKind = "addon"
)

var validLineKinds = []LineKind{
	LineKindMeal,
	LineKindBeverage,
	LineKindAddon,
}

// String implements fmt.Stringer.
func (k LineKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known LineKind.
func (k LineKind) IsValid() bool {
	for _, candidate := range validLineKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseLineKind converts raw input into a LineKind.
func ParseLineKind(value string) (LineKind, error) {
	for _, candidate := range validLineKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line kind %q", value)
}
