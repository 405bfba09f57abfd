package cart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bistrohub/ordering/internal/catalog"
	"github.com/bistrohub/ordering/pkg/enums"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	MaxMealQuantity     = 20
	MaxBeverageQuantity = 10
	MaxAddonQuantity    = 10
)

// MealKey identifies a meal variant by the customer's ingredient choices.
type MealKey struct {
	Meal  string
	Meat  string
	Sauce string
}

// NewMealKey builds a key, filling empty slots with catalog.NoIngredient.
func NewMealKey(meal, meat, sauce string) MealKey {
	if strings.TrimSpace(meat) == "" {
		meat = catalog.NoIngredient
	}
	if strings.TrimSpace(sauce) == "" {
		sauce = catalog.NoIngredient
	}
	return MealKey{Meal: meal, Meat: meat, Sauce: sauce}
}

func (k MealKey) String() string {
	return k.Meal + "_" + k.Meat + "_" + k.Sauce
}

// MealLine holds the quantity per size. Every size is present.
type MealLine map[enums.Size]int

func newMealLine() MealLine {
	line := make(MealLine, len(enums.Sizes))
	for _, size := range enums.Sizes {
		line[size] = 0
	}
	return line
}

func (l MealLine) empty() bool {
	for _, qty := range l {
		if qty > 0 {
			return false
		}
	}
	return true
}

// BeverageLine holds the quantity per capacity, keyed by catalog.CapacityKey.
type BeverageLine map[string]int

// Cart is an order under construction.
type Cart struct {
	OrderType   *enums.OrderType
	OrderStatus *enums.OrderStatus

	CustomerPhone string
	CustomerEmail string

	Meals     map[MealKey]MealLine
	Beverages map[string]BeverageLine
	Addons    map[string]int

	TotalPrice decimal.Decimal

	Street             string
	HouseNumber        int
	PostalCode         string
	City               string
	AdditionalComments string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{
		Meals:      map[MealKey]MealLine{},
		Beverages:  map[string]BeverageLine{},
		Addons:     map[string]int{},
		TotalPrice: decimal.Zero,
	}
}

func (c *Cart) ensureMaps() {
	if c.Meals == nil {
		c.Meals = map[MealKey]MealLine{}
	}
	if c.Beverages == nil {
		c.Beverages = map[string]BeverageLine{}
	}
	if c.Addons == nil {
		c.Addons = map[string]int{}
	}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Meals) == 0 && len(c.Beverages) == 0 && len(c.Addons) == 0
}

// AddMealLine adds quantity units of a meal variant in the given size and returns the new total.
func (c *Cart) AddMealLine(cat Catalog, meal, meat, sauce string, size enums.Size, quantity int) (decimal.Decimal, error) {
	c.ensureMaps()
	if !size.IsValid() {
		return c.TotalPrice, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid size %q", size)).
			WithDetails(map[string]string{"size": "invalid"})
	}
	key := NewMealKey(meal, meat, sauce)
	current := c.Meals[key][size]
	if err := checkQuantity(quantity, current, MaxMealQuantity); err != nil {
		return c.TotalPrice, err
	}
	unit, err := mealUnitPrice(cat, meal, size)
	if err != nil {
		return c.TotalPrice, err
	}

	line, ok := c.Meals[key]
	if !ok {
		line = newMealLine()
		c.Meals[key] = line
	}
	line[size] = current + quantity
	c.TotalPrice = c.TotalPrice.Add(lineAmount(quantity, unit))
	return c.TotalPrice, nil
}

// AddBeverageLine adds quantity units of a beverage capacity and returns the new total.
func (c *Cart) AddBeverageLine(cat Catalog, name string, capacity float64, quantity int) (decimal.Decimal, error) {
	c.ensureMaps()
	capKey := catalog.CapacityKey(capacity)
	current := c.Beverages[name][capKey]
	if err := checkQuantity(quantity, current, MaxBeverageQuantity); err != nil {
		return c.TotalPrice, err
	}
	unit, err := beverageUnitPrice(cat, name, capacity)
	if err != nil {
		return c.TotalPrice, err
	}

	line, ok := c.Beverages[name]
	if !ok {
		line = BeverageLine{}
		c.Beverages[name] = line
	}
	line[capKey] = current + quantity
	c.TotalPrice = c.TotalPrice.Add(lineAmount(quantity, unit))
	return c.TotalPrice, nil
}

// AddAddonLine adds quantity units of an addon and returns the new total.
func (c *Cart) AddAddonLine(cat Catalog, name string, quantity int) (decimal.Decimal, error) {
	c.ensureMaps()
	current := c.Addons[name]
	if err := checkQuantity(quantity, current, MaxAddonQuantity); err != nil {
		return c.TotalPrice, err
	}
	unit, err := addonUnitPrice(cat, name)
	if err != nil {
		return c.TotalPrice, err
	}
	c.Addons[name] = current + quantity
	c.TotalPrice = c.TotalPrice.Add(lineAmount(quantity, unit))
	return c.TotalPrice, nil
}

// LineRef addresses one quantity cell of the cart. For meals Key is the meal
// name, Meat and Sauce the chosen ingredients and Subkey the size; a meal ref
// without Meat and Sauce may carry the MealKey string in Key instead. For
// beverages Key is the name and Subkey the capacity; addons use Key only.
type LineRef struct {
	Kind   enums.LineKind `json:"kind"`
	Key    string         `json:"key"`
	Meat   string         `json:"meat,omitempty"`
	Sauce  string         `json:"sauce,omitempty"`
	Subkey string         `json:"subkey,omitempty"`
}

// IncrementLine adds one unit to an existing line and returns the new total.
func (c *Cart) IncrementLine(cat Catalog, ref LineRef) (decimal.Decimal, error) {
	return c.adjust(cat, ref, 1)
}

// DecrementLine removes one unit from an existing line and returns the new
// total. Lines that reach zero are removed. A line that can no longer be
// priced is still removed; the total is then re-derived from the catalog when
// every remaining line can be priced, and left as is otherwise.
func (c *Cart) DecrementLine(cat Catalog, ref LineRef) (decimal.Decimal, error) {
	return c.adjust(cat, ref, -1)
}

func (c *Cart) adjust(cat Catalog, ref LineRef, delta int) (decimal.Decimal, error) {
	switch ref.Kind {
	case enums.LineKindMeal:
		return c.adjustMeal(cat, ref, delta)
	case enums.LineKindBeverage:
		return c.adjustBeverage(cat, ref, delta)
	case enums.LineKindAddon:
		return c.adjustAddon(cat, ref, delta)
	default:
		return c.TotalPrice, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid line kind %q", ref.Kind))
	}
}

// applyDelta runs mutate and moves the total by delta units. Without a unit
// price only removals go through.
func (c *Cart) applyDelta(cat Catalog, delta int, unit decimal.Decimal, lookupErr error, mutate func()) (decimal.Decimal, error) {
	if lookupErr != nil {
		if delta > 0 {
			return c.TotalPrice, lookupErr
		}
		mutate()
		c.resyncTotal(cat)
		return c.TotalPrice, nil
	}
	mutate()
	c.TotalPrice = c.TotalPrice.Add(lineAmount(delta, unit))
	return c.TotalPrice, nil
}

func (c *Cart) resyncTotal(cat Catalog) {
	if c.IsEmpty() {
		c.TotalPrice = decimal.Zero
		return
	}
	if total, err := c.Recompute(cat); err == nil {
		c.TotalPrice = total
	}
}

func (c *Cart) adjustMeal(cat Catalog, ref LineRef, delta int) (decimal.Decimal, error) {
	key, err := c.findMealKey(ref)
	if err != nil {
		return c.TotalPrice, err
	}
	size, err := enums.ParseSize(ref.Subkey)
	if err != nil {
		return c.TotalPrice, lineNotFound(ref)
	}
	line := c.Meals[key]
	current := line[size]
	if current == 0 {
		return c.TotalPrice, lineNotFound(ref)
	}
	if delta > 0 {
		if err := checkQuantity(delta, current, MaxMealQuantity); err != nil {
			return c.TotalPrice, err
		}
	}
	unit, err := mealUnitPrice(cat, key.Meal, size)
	return c.applyDelta(cat, delta, unit, err, func() {
		line[size] = current + delta
		if line.empty() {
			delete(c.Meals, key)
		}
	})
}

func (c *Cart) adjustBeverage(cat Catalog, ref LineRef, delta int) (decimal.Decimal, error) {
	line, ok := c.Beverages[ref.Key]
	if !ok {
		return c.TotalPrice, lineNotFound(ref)
	}
	capacity, err := catalog.ParseCapacity(ref.Subkey)
	if err != nil {
		return c.TotalPrice, lineNotFound(ref)
	}
	capKey := catalog.CapacityKey(capacity)
	current := line[capKey]
	if current == 0 {
		return c.TotalPrice, lineNotFound(ref)
	}
	if delta > 0 {
		if err := checkQuantity(delta, current, MaxBeverageQuantity); err != nil {
			return c.TotalPrice, err
		}
	}
	unit, err := beverageUnitPrice(cat, ref.Key, capacity)
	return c.applyDelta(cat, delta, unit, err, func() {
		if next := current + delta; next > 0 {
			line[capKey] = next
		} else {
			delete(line, capKey)
		}
		if len(line) == 0 {
			delete(c.Beverages, ref.Key)
		}
	})
}

func (c *Cart) adjustAddon(cat Catalog, ref LineRef, delta int) (decimal.Decimal, error) {
	current := c.Addons[ref.Key]
	if current == 0 {
		return c.TotalPrice, lineNotFound(ref)
	}
	if delta > 0 {
		if err := checkQuantity(delta, current, MaxAddonQuantity); err != nil {
			return c.TotalPrice, err
		}
	}
	unit, err := addonUnitPrice(cat, ref.Key)
	return c.applyDelta(cat, delta, unit, err, func() {
		if next := current + delta; next > 0 {
			c.Addons[ref.Key] = next
		} else {
			delete(c.Addons, ref.Key)
		}
	})
}

// findMealKey resolves a meal ref. Structured refs match exactly; a bare
// MealKey string must identify a single line.
func (c *Cart) findMealKey(ref LineRef) (MealKey, error) {
	if ref.Meat != "" || ref.Sauce != "" {
		key := NewMealKey(ref.Key, ref.Meat, ref.Sauce)
		if _, ok := c.Meals[key]; !ok {
			return MealKey{}, lineNotFound(ref)
		}
		return key, nil
	}
	var (
		found MealKey
		n     int
	)
	for _, key := range c.sortedMealKeys() {
		if key.String() == ref.Key {
			found = key
			n++
		}
	}
	switch n {
	case 0:
		return MealKey{}, lineNotFound(ref)
	case 1:
		return found, nil
	default:
		return MealKey{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("meal line %q is ambiguous", ref.Key)).
			WithDetails(map[string]string{"line": "meat and sauce required"})
	}
}

func (c *Cart) sortedMealKeys() []MealKey {
	keys := make([]MealKey, 0, len(c.Meals))
	for key := range c.Meals {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Meal != b.Meal {
			return a.Meal < b.Meal
		}
		if a.Meat != b.Meat {
			return a.Meat < b.Meat
		}
		return a.Sauce < b.Sauce
	})
	return keys
}

func lineNotFound(ref LineRef) error {
	name := ref.Key
	if ref.Meat != "" || ref.Sauce != "" {
		name = NewMealKey(ref.Key, ref.Meat, ref.Sauce).String()
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s line %q not in cart", ref.Kind, strings.TrimSuffix(name+" "+ref.Subkey, " ")))
}

// Recompute sums every line from scratch at current catalog prices. It fails
// when any line cannot be priced.
func (c *Cart) Recompute(cat Catalog) (decimal.Decimal, error) {
	rows, err := c.Rows(cat)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Subtotal)
	}
	return total, nil
}

// Row is a priced, display-ready view of one quantity cell. Unavailable rows
// could not be priced against the catalog and carry zero prices.
type Row struct {
	Ref         LineRef         `json:"ref"`
	Name        string          `json:"name"`
	Meat        string          `json:"meat,omitempty"`
	Sauce       string          `json:"sauce,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Unavailable bool            `json:"unavailable,omitempty"`
}

func (r *Row) price(qty int, unit decimal.Decimal, err error) error {
	r.Quantity = qty
	if err != nil {
		r.UnitPrice = decimal.Zero
		r.Subtotal = decimal.Zero
		r.Unavailable = true
		return err
	}
	r.UnitPrice = unit
	r.Subtotal = lineAmount(qty, unit)
	return nil
}

// Rows lists every populated cell ordered by kind, then key, then subkey.
// Cells that cannot be priced are still listed, flagged Unavailable, and the
// first pricing error is returned alongside the full list.
func (c *Cart) Rows(cat Catalog) ([]Row, error) {
	var (
		rows     []Row
		firstErr error
	)
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, key := range c.sortedMealKeys() {
		line := c.Meals[key]
		for _, size := range enums.Sizes {
			qty := line[size]
			if qty == 0 {
				continue
			}
			row := Row{
				Ref:   LineRef{Kind: enums.LineKindMeal, Key: key.Meal, Meat: key.Meat, Sauce: key.Sauce, Subkey: size.String()},
				Name:  key.Meal,
				Meat:  key.Meat,
				Sauce: key.Sauce,
			}
			unit, err := mealUnitPrice(cat, key.Meal, size)
			keep(row.price(qty, unit, err))
			rows = append(rows, row)
		}
	}

	for _, name := range sortedKeys(c.Beverages) {
		line := c.Beverages[name]
		for _, capKey := range sortedKeys(line) {
			qty := line[capKey]
			if qty == 0 {
				continue
			}
			row := Row{
				Ref:  LineRef{Kind: enums.LineKindBeverage, Key: name, Subkey: capKey},
				Name: name,
			}
			capacity, err := catalog.ParseCapacity(capKey)
			if err != nil {
				keep(row.price(qty, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid beverage capacity in cart")))
				rows = append(rows, row)
				continue
			}
			unit, err := beverageUnitPrice(cat, name, capacity)
			keep(row.price(qty, unit, err))
			rows = append(rows, row)
		}
	}

	for _, name := range sortedKeys(c.Addons) {
		qty := c.Addons[name]
		if qty == 0 {
			continue
		}
		row := Row{
			Ref:  LineRef{Kind: enums.LineKindAddon, Key: name},
			Name: name,
		}
		unit, err := addonUnitPrice(cat, name)
		keep(row.price(qty, unit, err))
		rows = append(rows, row)
	}

	return rows, firstErr
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	out := *c
	if c.OrderType != nil {
		v := *c.OrderType
		out.OrderType = &v
	}
	if c.OrderStatus != nil {
		v := *c.OrderStatus
		out.OrderStatus = &v
	}
	out.Meals = make(map[MealKey]MealLine, len(c.Meals))
	for key, line := range c.Meals {
		cp := make(MealLine, len(line))
		for size, qty := range line {
			cp[size] = qty
		}
		out.Meals[key] = cp
	}
	out.Beverages = make(map[string]BeverageLine, len(c.Beverages))
	for name, line := range c.Beverages {
		cp := make(BeverageLine, len(line))
		for capKey, qty := range line {
			cp[capKey] = qty
		}
		out.Beverages[name] = cp
	}
	out.Addons = make(map[string]int, len(c.Addons))
	for name, qty := range c.Addons {
		out.Addons[name] = qty
	}
	return &out
}

// SetAddress records the delivery address.
func (c *Cart) SetAddress(street string, houseNumber int, postalCode, city string) {
	c.Street = street
	c.HouseNumber = houseNumber
	c.PostalCode = postalCode
	c.City = city
}

// ClearAddress drops any delivery address, used when fulfillment does not need one.
func (c *Cart) ClearAddress() {
	c.SetAddress("", 0, "", "")
}

// SetContact records the customer's phone and optional email.
func (c *Cart) SetContact(phone, email string) {
	c.CustomerPhone = phone
	c.CustomerEmail = email
}

// MarkOrdered stamps the fulfillment type and initial status ahead of submission.
func (c *Cart) MarkOrdered(orderType enums.OrderType) {
	status := enums.OrderStatusOrdered
	c.OrderType = &orderType
	c.OrderStatus = &status
}
