// Package router resolves canonical paths to resource handlers through a
// static route table and dispatches requests to them.
package router

import (
	"fmt"
	"strings"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/errs"
)

const (
	// Suffix marks a route registered under its handler file form.
	Suffix = ".fn"
	// IndexName is the directory default form, e.g. "coupons/index".
	IndexName = "index"
	// DefaultRoute answers the empty path.
	DefaultRoute = "database"
)

// Route binds a name in the handler namespace to a handler. Name may be
// written in any of the three forms: "orders", "orders.fn", "orders/index".
type Route struct {
	Name    string
	Methods []string
	Handler api.HandlerFunc
}

// Table is an immutable, ordered set of routes.
type Table struct {
	routes []Route
	byName map[string]int
}

// NewTable builds the table. Duplicate or empty names are programming
// errors and panic at startup.
func NewTable(routes ...Route) *Table {
	t := &Table{byName: make(map[string]int, len(routes))}
	for _, r := range routes {
		name := strings.Trim(r.Name, "/")
		if name == "" {
			panic("router: route with empty name")
		}
		if _, dup := t.byName[name]; dup {
			panic(fmt.Sprintf("router: duplicate route %q", name))
		}
		r.Name = name
		t.byName[name] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t
}

// Routes returns the registered routes in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Resolve maps a canonical path to its route. Candidates are tried in
// priority order: exact, file suffixed, directory index. If none is
// registered, the first route whose name ends with the requested
// identifier wins.
func (t *Table) Resolve(path string) (*Route, error) {
	id := strings.Join(api.SplitPath(path), "/")
	if id == "" {
		id = DefaultRoute
	}

	for _, candidate := range []string{
		id,
		id + Suffix,
		id + "/" + IndexName,
		id + "/" + IndexName + Suffix,
	} {
		if i, ok := t.byName[candidate]; ok {
			return t.checked(i)
		}
	}

	for i, r := range t.routes {
		if strings.HasSuffix("/"+canonical(r.Name), "/"+id) {
			return t.checked(i)
		}
	}

	return nil, errs.NewRouteNotFoundError(path)
}

func (t *Table) checked(i int) (*Route, error) {
	r := &t.routes[i]
	if r.Handler == nil {
		return nil, errs.NewInvalidHandlerError(r.Name)
	}
	return r, nil
}

// canonical strips the file suffix and directory index from a route name.
func canonical(name string) string {
	name = strings.TrimSuffix(name, Suffix)
	name = strings.TrimSuffix(name, "/"+IndexName)
	if name == IndexName {
		return ""
	}
	return name
}

// Allows reports whether method is served by r.
func (r *Route) Allows(method string) bool {
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}
