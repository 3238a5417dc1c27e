// Package handler implements the storefront resources on top of the
// persistence port. Handlers take the canonical request and return the
// canonical response; they hold no state between requests.
package handler

import (
	"context"
	"time"

	"cardapio-backend/internal/asset"
	"cardapio-backend/internal/config"
	"cardapio-backend/internal/metrics"
	"cardapio-backend/internal/store"
)

type Options struct {
	Store    store.Store
	Assets   asset.Storage
	Metrics  *metrics.Recorder
	Business config.BusinessConfig
	// AssetPrefix is the public path uploaded images are served under.
	AssetPrefix string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

type Handler struct {
	store       store.Store
	assets      asset.Storage
	metrics     *metrics.Recorder
	business    config.BusinessConfig
	assetPrefix string
	now         func() time.Time
	loc         *time.Location
}

func New(opts Options) *Handler {
	h := &Handler{
		store:       opts.Store,
		assets:      opts.Assets,
		metrics:     opts.Metrics,
		business:    opts.Business,
		assetPrefix: opts.AssetPrefix,
		now:         opts.Now,
		loc:         opts.Business.Location(),
	}
	if h.assets == nil {
		h.assets = asset.Discard{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.assetPrefix == "" {
		h.assetPrefix = "/images/products"
	}
	return h
}

func (h *Handler) collection(ctx context.Context, name string) (store.Collection, error) {
	return h.store.Collection(ctx, name)
}

// localNow is the current time in the business timezone.
func (h *Handler) localNow() time.Time {
	return h.now().In(h.loc)
}
