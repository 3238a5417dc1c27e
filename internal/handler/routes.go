package handler

import (
	"net/http"

	"cardapio-backend/internal/router"
	"cardapio-backend/internal/store"
)

const (
	get  = http.MethodGet
	post = http.MethodPost
	put  = http.MethodPut
	del  = http.MethodDelete
)

// Routes is the static handler namespace. Names follow the layout the
// functions were deployed under, so the same table serves every hosting
// shape.
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Name: "database", Methods: []string{get}, Handler: h.Snapshot},
		{Name: "products", Methods: []string{get, post}, Handler: h.catalog(store.Products, prepareProducts)},
		{Name: "coupons/index", Methods: []string{get, post}, Handler: h.catalog(store.Coupons, prepareCoupons)},
		{Name: "coupons/validate", Methods: []string{post}, Handler: h.ValidateCoupon},
		{Name: "featured", Methods: []string{get, post}, Handler: h.catalog(store.Featured, nil)},
		{Name: "hours", Methods: []string{get, post, put}, Handler: h.Hours},
		{Name: "status", Methods: []string{get}, Handler: h.Status},
		{Name: "orders", Methods: []string{get, post, del}, Handler: h.Orders},
		{Name: "auth/login", Methods: []string{post}, Handler: h.Login},
		{Name: "upload-image", Methods: []string{post}, Handler: h.UploadImage},
		{Name: "users", Methods: []string{get, post}, Handler: h.Users},
		{Name: "config", Methods: []string{get, post}, Handler: h.Settings},
	}
}

// Table builds the route table for this handler set.
func (h *Handler) Table() *router.Table {
	return router.NewTable(h.Routes()...)
}
