package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/metrics"

	"github.com/rs/zerolog"
)

var allMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Dispatcher runs a request through the table. It owns the behaviour every
// endpoint shares: CORS headers, OPTIONS, method checks, error mapping,
// panic recovery, logging and metrics.
type Dispatcher struct {
	table   *Table
	metrics *metrics.Recorder
}

func NewDispatcher(table *Table, m *metrics.Recorder) *Dispatcher {
	return &Dispatcher{table: table, metrics: m}
}

func (d *Dispatcher) Table() *Table {
	return d.table
}

// Dispatch never returns nil and never returns an error; failures are
// already rendered into the response.
func (d *Dispatcher) Dispatch(ctx context.Context, req *api.Request) *api.Response {
	start := time.Now()
	log := zerolog.Ctx(ctx)

	routeName := "unresolved"
	methods := allMethods

	resp, err := func() (*api.Response, error) {
		route, err := d.table.Resolve(req.Path)
		if err != nil {
			return nil, err
		}
		routeName = route.Name
		methods = route.Methods

		if req.Method == http.MethodOptions {
			return api.Empty(http.StatusOK), nil
		}
		if !route.Allows(req.Method) {
			return nil, errs.NewMethodNotAllowedError(req.Method, route.Methods)
		}
		return invoke(ctx, route, req)
	}()

	if err != nil {
		resp = d.failure(ctx, routeName, err)
	}
	if resp == nil {
		resp = api.Empty(http.StatusNoContent)
	}
	if resp.Headers == nil {
		resp.Headers = http.Header{}
	}
	setCORS(resp.Headers, methods)
	if req.Method == http.MethodOptions && err == nil {
		resp.Headers.Set("Access-Control-Max-Age", "86400")
	}

	elapsed := time.Since(start)
	d.metrics.ObserveRequest(routeName, req.Method, resp.StatusCode, elapsed)
	log.Info().
		Str("method", req.Method).
		Str("path", req.Path).
		Str("route", routeName).
		Int("status", resp.StatusCode).
		Dur("latency", elapsed).
		Msg("request")

	return resp
}

func invoke(ctx context.Context, route *Route, req *api.Request) (resp *api.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler %s panicked: %v", route.Name, p)
		}
	}()
	return route.Handler(ctx, req)
}

func (d *Dispatcher) failure(ctx context.Context, route string, err error) *api.Response {
	httpErr := errs.ToHTTP(err)
	log := zerolog.Ctx(ctx)

	var known *errs.HTTPError
	switch {
	case httpErr.Status >= 500:
		log.Error().Err(err).Str("route", route).Str("code", httpErr.Code).Msg("request failed")
	case errors.As(err, &known):
		log.Warn().Str("route", route).Str("code", httpErr.Code).Msg(httpErr.Message)
	}

	return api.JSON(httpErr.Status, api.ErrorBody(httpErr))
}

func setCORS(h http.Header, methods []string) {
	allowed := append(append([]string{}, methods...), http.MethodOptions)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Allow-Methods", strings.Join(allowed, ", "))
}
