package cart

import (
	"encoding/json"
	"fmt"

	"github.com/bistrohub/ordering/internal/catalog"
	"github.com/bistrohub/ordering/pkg/enums"
	"github.com/shopspring/decimal"
)

type mealLineJSON struct {
	Meal       string             `json:"meal"`
	Meat       string             `json:"meat"`
	Sauce      string             `json:"sauce"`
	Quantities map[enums.Size]int `json:"quantities"`
}

type cartJSON struct {
	OrderType          *enums.OrderType        `json:"orderType"`
	OrderStatus        *enums.OrderStatus      `json:"orderStatus"`
	CustomerPhone      string                  `json:"customerPhone"`
	CustomerEmail      string                  `json:"customerEmail"`
	Meals              []mealLineJSON          `json:"meals"`
	Beverages          map[string]BeverageLine `json:"beverages"`
	Addons             map[string]int          `json:"addons"`
	TotalPrice         decimal.Decimal         `json:"totalPrice"`
	Street             string                  `json:"street"`
	HouseNumber        int                     `json:"houseNumber"`
	PostalCode         string                  `json:"postalCode"`
	City               string                  `json:"city"`
	AdditionalComments string                  `json:"additionalComments"`
}

// MarshalJSON encodes meal lines as a list since struct keys cannot be JSON object keys.
func (c *Cart) MarshalJSON() ([]byte, error) {
	out := cartJSON{
		OrderType:          c.OrderType,
		OrderStatus:        c.OrderStatus,
		CustomerPhone:      c.CustomerPhone,
		CustomerEmail:      c.CustomerEmail,
		Meals:              make([]mealLineJSON, 0, len(c.Meals)),
		Beverages:          c.Beverages,
		Addons:             c.Addons,
		TotalPrice:         c.TotalPrice,
		Street:             c.Street,
		HouseNumber:        c.HouseNumber,
		PostalCode:         c.PostalCode,
		City:               c.City,
		AdditionalComments: c.AdditionalComments,
	}
	for _, key := range c.sortedMealKeys() {
		out.Meals = append(out.Meals, mealLineJSON{
			Meal:       key.Meal,
			Meat:       key.Meat,
			Sauce:      key.Sauce,
			Quantities: c.Meals[key],
		})
	}
	if out.Beverages == nil {
		out.Beverages = map[string]BeverageLine{}
	}
	if out.Addons == nil {
		out.Addons = map[string]int{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a stored cart. Zero quantities are
// pruned and meal lines are padded to every size.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var in cartJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.OrderType != nil && !in.OrderType.IsValid() {
		return fmt.Errorf("invalid order type %q", *in.OrderType)
	}
	if in.OrderStatus != nil && !in.OrderStatus.IsValid() {
		return fmt.Errorf("invalid order status %q", *in.OrderStatus)
	}
	if in.TotalPrice.IsNegative() {
		return fmt.Errorf("negative total %s", in.TotalPrice)
	}

	out := New()
	out.OrderType = in.OrderType
	out.OrderStatus = in.OrderStatus
	out.CustomerPhone = in.CustomerPhone
	out.CustomerEmail = in.CustomerEmail
	out.TotalPrice = in.TotalPrice
	out.Street = in.Street
	out.HouseNumber = in.HouseNumber
	out.PostalCode = in.PostalCode
	out.City = in.City
	out.AdditionalComments = in.AdditionalComments

	for _, m := range in.Meals {
		if m.Meal == "" {
			return fmt.Errorf("meal line without name")
		}
		key := NewMealKey(m.Meal, m.Meat, m.Sauce)
		line := newMealLine()
		for size, qty := range m.Quantities {
			if !size.IsValid() {
				return fmt.Errorf("meal %q: invalid size %q", m.Meal, size)
			}
			if qty < 0 || qty > MaxMealQuantity {
				return fmt.Errorf("meal %q: quantity %d out of range", m.Meal, qty)
			}
			line[size] = qty
		}
		if _, dup := out.Meals[key]; dup {
			return fmt.Errorf("duplicate meal line %s", key)
		}
		if !line.empty() {
			out.Meals[key] = line
		}
	}

	for name, line := range in.Beverages {
		clean := BeverageLine{}
		seen := make(map[string]string, len(line))
		for capKey, qty := range line {
			capacity, err := catalog.ParseCapacity(capKey)
			if err != nil {
				return fmt.Errorf("beverage %q: invalid capacity %q", name, capKey)
			}
			if qty < 0 || qty > MaxBeverageQuantity {
				return fmt.Errorf("beverage %q: quantity %d out of range", name, qty)
			}
			norm := catalog.CapacityKey(capacity)
			if prev, dup := seen[norm]; dup {
				return fmt.Errorf("beverage %q: capacities %q and %q collide", name, prev, capKey)
			}
			seen[norm] = capKey
			if qty > 0 {
				clean[norm] = qty
			}
		}
		if len(clean) > 0 {
			out.Beverages[name] = clean
		}
	}

	for name, qty := range in.Addons {
		if qty < 0 || qty > MaxAddonQuantity {
			return fmt.Errorf("addon %q: quantity %d out of range", name, qty)
		}
		if qty > 0 {
			out.Addons[name] = qty
		}
	}

	*c = *out
	return nil
}
