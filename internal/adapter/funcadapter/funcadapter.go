// Package funcadapter is the one-function-per-route shape. The platform
// decides which function runs, so the incoming path is not used for
// routing: every request goes to the configured route.
package funcadapter

import (
	"fmt"
	"net/http"
	"strings"

	"cardapio-backend/internal/adapter"
	"cardapio-backend/internal/api"
	"cardapio-backend/internal/router"

	"github.com/rs/zerolog"
)

type Options struct {
	Dispatcher *router.Dispatcher
	Logger     zerolog.Logger
	// Route is the handler name this function serves, e.g. "orders" or
	// "coupons/validate".
	Route     string
	BodyLimit int64
}

// New fails when Route does not resolve, so a misnamed function is caught
// at startup instead of on every request.
func New(opts Options) (http.HandlerFunc, error) {
	name := strings.Trim(opts.Route, "/")
	route, err := opts.Dispatcher.Table().Resolve("/" + name)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", opts.Route, err)
	}
	path := "/" + route.Name

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			adapter.Health(w, r)
			return
		}
		r, _ = adapter.WithRequestID(w, r, opts.Logger)
		adapter.Serve(opts.Dispatcher, w, r, "", opts.BodyLimit, func(req *api.Request) {
			req.Path = path
		})
	}, nil
}
