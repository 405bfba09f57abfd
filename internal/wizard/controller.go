package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/bistrohub/ordering/internal/cart"
	"github.com/bistrohub/ordering/internal/catalog"
	"github.com/bistrohub/ordering/internal/orders"
	"github.com/bistrohub/ordering/internal/persistence"
	"github.com/bistrohub/ordering/pkg/enums"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/bistrohub/ordering/pkg/i18n"
	"github.com/bistrohub/ordering/pkg/logger"
	"github.com/bistrohub/ordering/pkg/metrics"
)

// MenuSource is the catalog cache as seen by the wizard.
type MenuSource interface {
	EnsureLoaded(ctx context.Context) error
	Menu() catalog.Menu
}

// Deps are the collaborators of a Controller. Translator, Logger and Metrics
// are optional.
type Deps struct {
	Catalog    MenuSource
	Store      persistence.Store
	Gateway    orders.Gateway
	Translator i18n.NameTranslator
	Logger     *logger.Logger
	Metrics    *metrics.WizardMetrics
}

// Controller drives one customer's wizard. It is not safe for concurrent use;
// callers serialize access per session.
type Controller struct {
	catalog    MenuSource
	store      persistence.Store
	gateway    orders.Gateway
	translator i18n.NameTranslator
	logg       *logger.Logger
	metrics    *metrics.WizardMetrics
	now        func() time.Time

	snapshot Snapshot
	cart     *cart.Cart
	tracking *persistence.TrackingHandle
}

func NewController(deps Deps) (*Controller, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	return &Controller{
		catalog:    deps.Catalog,
		store:      deps.Store,
		gateway:    deps.Gateway,
		translator: deps.Translator,
		logg:       deps.Logger,
		metrics:    deps.Metrics,
		now:        time.Now,
		snapshot:   Initial(),
		cart:       cart.New(),
	}, nil
}

func (c *Controller) Snapshot() Snapshot {
	return c.snapshot
}

// Cart returns a copy of the cart under construction.
func (c *Controller) Cart() *cart.Cart {
	return c.cart.Clone()
}

// Handle applies one customer input. Validation problems are reported inline
// on the returned view with a nil error; inputs that do not fit the current
// state and infrastructure failures are returned as errors.
func (c *Controller) Handle(ctx context.Context, in Input) (View, error) {
	if start, ok := in.(Start); ok {
		in = c.prepareStart(ctx, start)
	}

	prev := c.snapshot
	next, effects, err := Transition(prev, in)
	if err != nil {
		return c.View(ctx), err
	}
	if next.Error != nil && len(effects) == 0 && next.State == prev.State {
		c.snapshot = next
		return c.View(ctx), nil
	}

	working := c.cart.Clone()
	res, err := c.run(ctx, &next, working, effects)
	if err != nil {
		if !pkgerrors.IsUserFacing(err) {
			c.logError(ctx, "wizard effect failed", err)
			return c.View(ctx), err
		}
		c.snapshot = prev.withError(err)
		return c.View(ctx), nil
	}

	c.cart = res
	c.snapshot = next
	c.metrics.IncTransition(prev.State.String(), next.State.String())
	if c.logg != nil && prev.State != next.State {
		c.logg.Debug(c.logg.WithFields(ctx, map[string]any{
			"from":  prev.State.String(),
			"to":    next.State.String(),
			"input": in.Kind(),
		}), "wizard transition")
	}
	return c.View(ctx), nil
}

func (c *Controller) prepareStart(ctx context.Context, start Start) Start {
	if err := c.catalog.EnsureLoaded(ctx); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"error": err.Error()}), "starting wizard with a partial catalog")
	}
	if start.Fresh {
		return start
	}
	saved, err := c.store.LoadCart(ctx)
	if err != nil {
		c.logError(ctx, "load saved cart", err)
	}
	start.HasSavedCart = saved != nil && !saved.IsEmpty()
	return start
}

// run executes effects against working and returns the cart to commit. next
// may be adjusted when an effect changes where the wizard lands.
func (c *Controller) run(ctx context.Context, next *Snapshot, working *cart.Cart, effects []Effect) (*cart.Cart, error) {
	menu := c.catalog.Menu()
	dirty := false

	for _, eff := range effects {
		switch e := eff.(type) {
		case LoadSavedCart:
			saved, err := c.store.LoadCart(ctx)
			if err != nil {
				return nil, err
			}
			c.metrics.IncResumeDecision(true)
			if saved == nil || saved.IsEmpty() {
				*next = Snapshot{State: StateCategoryChoice}
				next.Error = inlineError(pkgerrors.New(pkgerrors.CodeNotFound, "saved order is no longer available"))
				working = cart.New()
				continue
			}
			working = saved

		case DiscardSavedCart:
			if c.snapshot.State == StateResumePrompt {
				c.metrics.IncResumeDecision(false)
			}
			if err := c.store.ClearCart(ctx); err != nil {
				return nil, err
			}

		case ResetCart:
			working = cart.New()

		case SelectMeal:
			if _, ok := menu.Meal(e.Name); !ok {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("meal %q not found", e.Name))
			}

		case SelectBeverage:
			if len(menu.BeverageCapacities(e.Name)) == 0 {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("beverage %q not found", e.Name))
			}

		case AddMeal:
			if err := addMeal(menu, working, e); err != nil {
				return nil, err
			}
			dirty = true

		case AddBeverage:
			if _, err := working.AddBeverageLine(menu, e.Name, e.Capacity, e.Quantity); err != nil {
				return nil, err
			}
			dirty = true

		case AddAddon:
			if _, err := working.AddAddonLine(menu, e.Name, e.Quantity); err != nil {
				return nil, err
			}
			dirty = true

		case IncrementLine:
			if _, err := working.IncrementLine(menu, e.Line); err != nil {
				return nil, err
			}
			dirty = true

		case DecrementLine:
			if _, err := working.DecrementLine(menu, e.Line); err != nil {
				return nil, err
			}
			dirty = true

		case SetFulfillment:
			if !e.OrderType.RequiresAddress() {
				working.ClearAddress()
				dirty = true
			}

		case SetAddress:
			working.SetAddress(e.Address.Street, e.Address.HouseNumber, e.Address.PostalCode, e.Address.City)
			dirty = true

		case SetContact:
			working.SetContact(e.Contact.Phone, e.Contact.Email)
			dirty = true

		case SetComment:
			working.AdditionalComments = e.Comment
			dirty = true

		case SubmitOrder:
			return c.submit(ctx, working, e.OrderType)

		default:
			return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unhandled effect %T", eff))
		}
	}

	if next.State == StateReview && working.IsEmpty() {
		*next = Snapshot{State: StateIdle}
		if err := c.store.ClearCart(ctx); err != nil {
			return nil, err
		}
		return working, nil
	}
	if dirty {
		if err := c.store.SaveCart(ctx, working); err != nil {
			return nil, err
		}
	}
	return working, nil
}

func addMeal(menu catalog.Menu, working *cart.Cart, e AddMeal) error {
	size, err := enums.ParseSize(e.Size)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size").
			WithDetails(map[string]string{"size": "is invalid"})
	}
	if _, ok := menu.Meal(e.Meal); !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("meal %q not found", e.Meal))
	}
	key := cart.NewMealKey(e.Meal, e.Meat, e.Sauce)
	details := map[string]string{}
	if !menu.IsValidChoice(e.Meal, enums.IngredientTypeMeat, key.Meat) {
		details["meat"] = "is not offered for this meal"
	}
	if !menu.IsValidChoice(e.Meal, enums.IngredientTypeSauce, key.Sauce) {
		details["sauce"] = "is not offered for this meal"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid meal configuration").WithDetails(details)
	}
	_, err = working.AddMealLine(menu, key.Meal, key.Meat, key.Sauce, size, e.Quantity)
	return err
}

// submit sends the order. After the gateway accepts it, storage failures are
// logged but never reported: the order exists and must not be sent twice.
func (c *Controller) submit(ctx context.Context, working *cart.Cart, orderType enums.OrderType) (*cart.Cart, error) {
	working.MarkOrdered(orderType)

	started := c.now()
	result, err := c.gateway.Submit(ctx, working)
	c.metrics.ObserveSubmission(err == nil, c.now().Sub(started))
	if err != nil {
		c.logError(ctx, "order submission failed", err)
		if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
		}
		return nil, err
	}

	if c.logg != nil {
		c.logg.Info(c.logg.WithOrderID(ctx, result.ID), "order submitted")
	}
	if err := c.store.ClearCart(ctx); err != nil {
		c.logError(ctx, "clear cart after submission", err)
	}
	handle := orders.NewTrackingHandle(result, working.CustomerPhone)
	if err := c.store.SaveTrackingHandle(ctx, handle); err != nil {
		c.logError(ctx, "save tracking handle", err)
	}
	c.tracking = &handle
	return cart.New(), nil
}

// Tracking returns the handle of the last order submitted in this session,
// falling back to the stored one.
func (c *Controller) Tracking(ctx context.Context) (*persistence.TrackingHandle, error) {
	if c.tracking != nil {
		h := *c.tracking
		return &h, nil
	}
	return c.store.LoadTrackingHandle(ctx)
}

// ForgetTracking drops the tracking handle from memory and storage.
func (c *Controller) ForgetTracking(ctx context.Context) error {
	c.tracking = nil
	return c.store.ClearTrackingHandle(ctx)
}

func (c *Controller) logError(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Error(c.logg.WithWizardState(ctx, c.snapshot.State.String()), msg, err)
}
