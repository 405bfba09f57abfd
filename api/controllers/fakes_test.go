package controllers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bistrohub/ordering/internal/cart"
	"github.com/bistrohub/ordering/internal/catalog"
	"github.com/bistrohub/ordering/internal/orders"
	"github.com/bistrohub/ordering/internal/persistence"
	"github.com/bistrohub/ordering/internal/sessions"
	"github.com/bistrohub/ordering/internal/wizard"
	"github.com/bistrohub/ordering/pkg/enums"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func testMenu() catalog.Menu {
	return catalog.NewMenu(
		[]catalog.Meal{{
			Name: "Classic",
			Prices: map[enums.Size]decimal.Decimal{
				enums.SizeSmall: decimal.RequireFromString("20"),
				enums.SizeLarge: decimal.RequireFromString("30"),
			},
			Ingredients: []catalog.Ingredient{
				{Name: "beef", Type: enums.IngredientTypeMeat},
				{Name: "garlic", Type: enums.IngredientTypeSauce},
			},
		}},
		[]catalog.Beverage{{
			Name:      "Cola",
			Capacity:  0.5,
			Price:     decimal.RequireFromString("8.00"),
			Promotion: &catalog.Promotion{ID: 1, Description: "summer", DiscountPercentage: 10},
		}},
		[]catalog.Addon{{Name: "Fries", Price: decimal.RequireFromString("9.00")}},
		[]catalog.Ingredient{
			{Name: "beef", Type: enums.IngredientTypeMeat},
			{Name: "garlic", Type: enums.IngredientTypeSauce},
		},
	)
}

type fakeCatalog struct {
	menu       catalog.Menu
	loadErr    error
	refreshErr error
	refreshes  int
}

func (f *fakeCatalog) EnsureLoaded(context.Context) error { return f.loadErr }
func (f *fakeCatalog) Menu() catalog.Menu                  { return f.menu }

func (f *fakeCatalog) Refresh(context.Context) error {
	f.refreshes++
	return f.refreshErr
}

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) CartKey(sid string) string     { return "bh:cart:" + sid }
func (m *memKV) TrackingKey(sid string) string { return "bh:tracking:" + sid }

type stubGateway struct {
	err    error
	result orders.SubmitResult
}

func (g *stubGateway) Submit(context.Context, *cart.Cart) (orders.SubmitResult, error) {
	if g.err != nil {
		return orders.SubmitResult{}, g.err
	}
	return g.result, nil
}

type harness struct {
	kv       *memKV
	gateway  *stubGateway
	registry *sessions.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		kv:      newMemKV(),
		gateway: &stubGateway{result: orders.SubmitResult{ID: 5150, DiscountPercentageEarned: 5}},
	}
	menu := &fakeCatalog{menu: testMenu()}
	registry, err := sessions.NewRegistry(func(sid string) (*wizard.Controller, error) {
		store, err := persistence.New(h.kv, sid, persistence.Options{}, nil)
		if err != nil {
			return nil, err
		}
		return wizard.NewController(wizard.Deps{Catalog: menu, Store: store, Gateway: h.gateway})
	}, nil)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	h.registry = registry
	return h
}
