// Package adapter holds what the hosting adapters share: request ids,
// translation of net/http requests into the canonical shape, and the
// health endpoint.
package adapter

import (
	"net/http"
	"strings"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/logger"
	"cardapio-backend/internal/router"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// RequestIDHeader carries the correlation id in and out.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is where gin keeps the id on its context.
	RequestIDKey = "request_id"
)

// WithRequestID reuses the incoming request id or generates one, echoes it
// on the response and returns r with a request-scoped logger attached.
func WithRequestID(w http.ResponseWriter, r *http.Request, base zerolog.Logger) (*http.Request, string) {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	w.Header().Set(RequestIDHeader, id)
	return r.WithContext(logger.WithRequest(r.Context(), base, id)), id
}

// RequestID is WithRequestID as net/http middleware.
func RequestID(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, _ = WithRequestID(w, r, base)
			next.ServeHTTP(w, r)
		})
	}
}

// Prefix returns the first prefix path falls under, or "".
func Prefix(path string, prefixes ...string) string {
	for _, p := range prefixes {
		p = strings.TrimRight(p, "/")
		if p != "" && (path == p || strings.HasPrefix(path, p+"/")) {
			return p
		}
	}
	return ""
}

// Serve runs r through the dispatcher. rewrite, when set, adjusts the
// canonical request before dispatch.
func Serve(d *router.Dispatcher, w http.ResponseWriter, r *http.Request, prefix string, limit int64, rewrite func(*api.Request)) {
	req, err := api.FromHTTP(r, prefix, limit)
	if err != nil {
		httpErr := errs.ToHTTP(err)
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("request rejected")
		resp := api.JSON(httpErr.Status, api.ErrorBody(httpErr))
		resp.Headers = http.Header{"Access-Control-Allow-Origin": {"*"}}
		write(w, resp)
		return
	}
	if rewrite != nil {
		rewrite(req)
	}
	write(w, d.Dispatch(r.Context(), req))
}

// write leaves CORS headers already set by middleware in front of the
// dispatcher alone.
func write(w http.ResponseWriter, resp *api.Response) {
	for k := range resp.Headers {
		if strings.HasPrefix(k, "Access-Control-") && w.Header().Get(k) != "" {
			resp.Headers.Del(k)
		}
	}
	api.Write(w, resp)
}

// Health answers liveness probes. It does not touch the store.
func Health(w http.ResponseWriter, _ *http.Request) {
	api.Write(w, api.OK(api.H{"status": "ok"}))
}
