package enums

import (
	"fmt"
	"strings"
)

// Size is the portion size of a meal.
type Size string

const (
	SizeSmall  Size = "SMALL"
	SizeMedium Size = "MEDIUM"
	SizeLarge  Size = "LARGE"
	SizeXL     Size = "XL"
)

// Sizes lists every meal size in menu order.
var Sizes = []Size{
	SizeSmall,
	SizeMedium,
	SizeLarge,
	SizeXL,
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Size.
func (s Size) IsValid() bool {
	for _, candidate := range Sizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSize converts raw input into a Size. Matching ignores case.
func ParseSize(value string) (Size, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range Sizes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size %q", value)
}
