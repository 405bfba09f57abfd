package catalog

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/bistrohub/ordering/pkg/logger"
	"github.com/bistrohub/ordering/pkg/metrics"
	"go.uber.org/multierr"
)

// MenuProvider fetches catalog lists from the restaurant backend.
type MenuProvider interface {
	GetMeals(ctx context.Context) ([]Meal, error)
	GetBeverages(ctx context.Context) ([]Beverage, error)
	GetAddons(ctx context.Context) ([]Addon, error)
	GetIngredients(ctx context.Context) ([]Ingredient, error)
}

const (
	listMeals       = "meals"
	listBeverages   = "beverages"
	listAddons      = "addons"
	listIngredients = "ingredients"
)

// Cache lazily loads the catalog and keeps it for reuse. Each list is fetched
// only while its cached copy is empty.
type Cache struct {
	provider MenuProvider
	logg     *logger.Logger
	metrics  *metrics.WizardMetrics

	loadMu sync.Mutex
	mu     sync.RWMutex
	menu   Menu
}

// NewCache builds a cache over provider. logg and m may be nil.
func NewCache(provider MenuProvider, logg *logger.Logger, m *metrics.WizardMetrics) (*Cache, error) {
	if provider == nil {
		return nil, fmt.Errorf("menu provider required")
	}
	return &Cache{provider: provider, logg: logg, metrics: m}, nil
}

// EnsureLoaded fetches every list that is currently empty. Failed lists stay
// empty and are retried on the next call. The returned error aggregates the
// failures for callers that care; the cached menu is usable either way.
func (c *Cache) EnsureLoaded(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	current := c.Menu()
	meals, beverages, addons, ingredients := current.meals, current.beverages, current.addons, current.ingredients

	var errs error
	if len(meals) == 0 {
		fetched, err := c.provider.GetMeals(ctx)
		errs = multierr.Append(errs, c.observe(ctx, listMeals, err))
		meals = fetched
	}
	if len(beverages) == 0 {
		fetched, err := c.provider.GetBeverages(ctx)
		errs = multierr.Append(errs, c.observe(ctx, listBeverages, err))
		beverages = fetched
	}
	if len(addons) == 0 {
		fetched, err := c.provider.GetAddons(ctx)
		errs = multierr.Append(errs, c.observe(ctx, listAddons, err))
		addons = fetched
	}
	if len(ingredients) == 0 {
		fetched, err := c.provider.GetIngredients(ctx)
		errs = multierr.Append(errs, c.observe(ctx, listIngredients, err))
		ingredients = fetched
	}

	c.mu.Lock()
	c.menu = NewMenu(meals, beverages, addons, ingredients)
	c.mu.Unlock()

	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "catalog partially loaded")
	}
	return nil
}

// Refresh drops every cached list and loads the catalog again.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.menu = Menu{}
	c.mu.Unlock()
	return c.EnsureLoaded(ctx)
}

// Menu returns the current snapshot without triggering a load.
func (c *Cache) Menu() Menu {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.menu
}

func (c *Cache) observe(ctx context.Context, list string, err error) error {
	if err == nil {
		return nil
	}
	c.metrics.IncCatalogLoadFailure(list)
	if c.logg != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
			"catalog_list": list,
			"error":        err.Error(),
		}), "catalog list load failed")
	}
	return fmt.Errorf("load %s: %w", list, err)
}
