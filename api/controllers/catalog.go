package controllers

import (
	"context"
	"net/http"

	"github.com/bistrohub/ordering/api/responses"
	"github.com/bistrohub/ordering/internal/catalog"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/bistrohub/ordering/pkg/logger"
)

// CatalogSource is the shared catalog cache.
type CatalogSource interface {
	EnsureLoaded(ctx context.Context) error
	Refresh(ctx context.Context) error
	Menu() catalog.Menu
}

type catalogSnapshot struct {
	Meals       []catalog.Meal       `json:"meals"`
	Beverages   []catalog.Beverage   `json:"beverages"`
	Addons      []catalog.Addon      `json:"addons"`
	Ingredients []catalog.Ingredient `json:"ingredients"`
	Partial     bool                 `json:"partial"`
}

func snapshotOf(menu catalog.Menu, partial bool) catalogSnapshot {
	return catalogSnapshot{
		Meals:       nonNil(menu.Meals()),
		Beverages:   nonNil(menu.Beverages()),
		Addons:      nonNil(menu.Addons()),
		Ingredients: nonNil(menu.Ingredients()),
		Partial:     partial,
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// CatalogSnapshot returns the cached menu, loading any list still missing.
// A partially loaded menu is returned with partial=true; a menu with nothing
// loaded is a dependency error.
func CatalogSnapshot(cache CatalogSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		err := cache.EnsureLoaded(r.Context())
		menu := cache.Menu()
		if err != nil && menu.IsEmpty() {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshotOf(menu, err != nil))
	}
}

// CatalogRefresh drops the cached menu and loads it again.
func CatalogRefresh(cache CatalogSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		if err := cache.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(r.Context(), "catalog refreshed")
		}
		responses.WriteSuccess(w, snapshotOf(cache.Menu(), false))
	}
}
