package handler

import (
	"context"
	"strings"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"go.mongodb.org/mongo-driver/bson"
)

// Snapshot serves the public view of the store: active products, their
// categories, active coupons and the configuration. Users, customers and
// orders are never part of it.
func (h *Handler) Snapshot(ctx context.Context, _ *api.Request) (*api.Response, error) {
	products, err := h.listCatalog(ctx, store.Products, false)
	if err != nil {
		return nil, err
	}
	coupons, err := h.listCatalog(ctx, store.Coupons, false)
	if err != nil {
		return nil, err
	}
	settings, err := h.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	return api.OK(api.H{
		"products":      model.PublicAll(products),
		"categories":    categories(products),
		"coupons":       model.PublicAll(coupons),
		"configuration": settings,
	}), nil
}

// categories lists distinct non-empty categories in first-seen order.
func categories(products []bson.M) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, p := range products {
		c := strings.TrimSpace(model.String(p, "category"))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
