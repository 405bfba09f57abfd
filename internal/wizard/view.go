package wizard

import (
	"context"

	"github.com/bistrohub/ordering/internal/cart"
	"github.com/bistrohub/ordering/internal/catalog"
	"github.com/bistrohub/ordering/internal/persistence"
	"github.com/bistrohub/ordering/pkg/enums"
	"github.com/bistrohub/ordering/pkg/i18n"
	"github.com/shopspring/decimal"
)

// Option is a selectable value with its display label.
type Option struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	Translated bool   `json:"translated"`
}

type PriceOption struct {
	Value          string          `json:"value"`
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
	Promotion      string          `json:"promotion,omitempty"`
}

type MealOption struct {
	Option
	Sizes []PriceOption `json:"sizes"`
}

type MealForm struct {
	Name   string        `json:"name"`
	Meats  []Option      `json:"meats"`
	Sauces []Option      `json:"sauces"`
	Sizes  []PriceOption `json:"sizes"`
}

type BeverageForm struct {
	Name       string        `json:"name"`
	Capacities []PriceOption `json:"capacities"`
}

type AddonOption struct {
	Option
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
}

type CartView struct {
	Rows               []cart.Row       `json:"rows"`
	Total              decimal.Decimal  `json:"total"`
	OrderType          *enums.OrderType `json:"orderType,omitempty"`
	CustomerPhone      string           `json:"customerPhone,omitempty"`
	CustomerEmail      string           `json:"customerEmail,omitempty"`
	Street             string           `json:"street,omitempty"`
	HouseNumber        int              `json:"houseNumber,omitempty"`
	PostalCode         string           `json:"postalCode,omitempty"`
	City               string           `json:"city,omitempty"`
	AdditionalComments string           `json:"additionalComments,omitempty"`
}

// View is everything the UI needs to render the current step.
type View struct {
	State      State                       `json:"state"`
	Error      *InlineError                `json:"error,omitempty"`
	Categories []enums.Category            `json:"categories,omitempty"`
	Meals      []MealOption                `json:"meals,omitempty"`
	Meal       *MealForm                   `json:"meal,omitempty"`
	Beverages  []Option                    `json:"beverages,omitempty"`
	Beverage   *BeverageForm               `json:"beverage,omitempty"`
	Addons     []AddonOption               `json:"addons,omitempty"`
	OrderTypes []enums.OrderType           `json:"orderTypes,omitempty"`
	Cart       *CartView                   `json:"cart,omitempty"`
	Tracking   *persistence.TrackingHandle `json:"tracking,omitempty"`
}

// View renders the current step.
func (c *Controller) View(ctx context.Context) View {
	menu := c.catalog.Menu()
	s := c.snapshot
	v := View{State: s.State, Error: s.Error}

	switch s.State {
	case StateCategoryChoice:
		v.Categories = append([]enums.Category(nil), enums.Categories...)
	case StateMealPick:
		for _, meal := range menu.Meals() {
			v.Meals = append(v.Meals, MealOption{Option: c.option(meal.Name), Sizes: sizeOptions(meal)})
		}
	case StateMealConfigure:
		if meal, ok := menu.Meal(s.Meal); ok {
			v.Meal = &MealForm{
				Name:   meal.Name,
				Meats:  c.options(menu.MeatOptions(meal.Name)),
				Sauces: c.options(menu.SauceOptions(meal.Name)),
				Sizes:  sizeOptions(meal),
			}
		}
	case StateBeveragePick:
		v.Beverages = c.options(menu.BeverageNames())
	case StateBeverageConfigure:
		form := &BeverageForm{Name: s.Beverage}
		for _, bev := range menu.BeverageCapacities(s.Beverage) {
			form.Capacities = append(form.Capacities, PriceOption{
				Value:          catalog.CapacityKey(bev.Capacity),
				Price:          bev.Price,
				EffectivePrice: cart.EffectivePrice(bev.Price, discountOf(bev.Promotion)),
				Promotion:      descriptionOf(bev.Promotion),
			})
		}
		v.Beverage = form
	case StateAddonConfigure:
		for _, addon := range menu.Addons() {
			v.Addons = append(v.Addons, AddonOption{
				Option:         c.option(addon.Name),
				Price:          addon.Price,
				EffectivePrice: cart.EffectivePrice(addon.Price, discountOf(addon.Promotion)),
			})
		}
	case StateFulfillmentChoice:
		v.OrderTypes = []enums.OrderType{enums.OrderTypeDelivery, enums.OrderTypeTakeAway, enums.OrderTypeOnSite}
	case StateSubmitted:
		if c.tracking != nil {
			h := *c.tracking
			v.Tracking = &h
		}
	}

	if !c.cart.IsEmpty() {
		v.Cart = c.cartView(ctx, menu, s)
	}
	return v
}

func (c *Controller) cartView(ctx context.Context, menu catalog.Menu, s Snapshot) *CartView {
	rows, err := c.cart.Rows(menu)
	if err != nil && c.logg != nil {
		// Prices can be missing while the catalog is partially loaded; those rows are flagged.
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"error": err.Error()}), "cart rows partly unpriced")
	}
	return &CartView{
		Rows:               rows,
		Total:              c.cart.TotalPrice,
		OrderType:          s.OrderType,
		CustomerPhone:      c.cart.CustomerPhone,
		CustomerEmail:      c.cart.CustomerEmail,
		Street:             c.cart.Street,
		HouseNumber:        c.cart.HouseNumber,
		PostalCode:         c.cart.PostalCode,
		City:               c.cart.City,
		AdditionalComments: c.cart.AdditionalComments,
	}
}

func (c *Controller) option(value string) Option {
	return Option{
		Value:      value,
		Label:      i18n.DisplayName(c.translator, value),
		Translated: i18n.HasTranslation(c.translator, value),
	}
}

func (c *Controller) options(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, c.option(v))
	}
	return out
}

func sizeOptions(meal catalog.Meal) []PriceOption {
	var out []PriceOption
	for _, size := range meal.AvailableSizes() {
		base, _ := meal.Price(size)
		opt := PriceOption{Value: size.String(), Price: base, EffectivePrice: base}
		if promo := meal.PromotionFor(size); promo != nil {
			opt.EffectivePrice = cart.EffectivePrice(base, promo.DiscountPercentage)
			opt.Promotion = promo.Description
		}
		out = append(out, opt)
	}
	return out
}

func discountOf(p *catalog.Promotion) int {
	if p == nil {
		return 0
	}
	return p.DiscountPercentage
}

func descriptionOf(p *catalog.Promotion) string {
	if p == nil {
		return ""
	}
	return p.Description
}
