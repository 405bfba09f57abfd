package enums

import "fmt"

// OrderType is how the customer receives the order.
type OrderType string

const (
	OrderTypeDelivery OrderType = "DELIVERY"
	OrderTypeTakeAway OrderType = "TAKE_AWAY"
	OrderTypeOnSite   OrderType = "ON_SITE"
)

var validOrderTypes = []OrderType{
	OrderTypeDelivery,
	OrderTypeTakeAway,
	OrderTypeOnSite,
}

// String implements fmt.Stringer.
func (o OrderType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderType.
func (o OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// RequiresAddress reports whether the fulfillment needs a delivery address.
func (o OrderType) RequiresAddress() bool {
	return o == OrderTypeDelivery
}

// ParseOrderType converts raw input into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}
