// Package chiadapter is the single-function router shape: one handler
// receives every path under the platform prefix and dispatches it through
// the route table.
package chiadapter

import (
	"net/http"

	"cardapio-backend/internal/adapter"
	"cardapio-backend/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Options struct {
	Dispatcher *router.Dispatcher
	Logger     zerolog.Logger
	// Prefixes are stripped from the incoming path, first match wins. The
	// platform may deliver either the function path or the rewritten
	// public one.
	Prefixes  []string
	BodyLimit int64
}

func New(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(adapter.RequestID(opts.Logger))

	r.Get("/health", adapter.Health)
	r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		prefix := adapter.Prefix(req.URL.Path, opts.Prefixes...)
		adapter.Serve(opts.Dispatcher, w, req, prefix, opts.BodyLimit, nil)
	}))

	return r
}
