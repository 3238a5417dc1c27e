package handler

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/coupon"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

// prepareFunc normalizes a replace-all batch before it is written.
type prepareFunc func(docs []bson.M) error

// catalog serves a replace-all collection: GET lists, POST replaces the
// whole collection with the posted array.
func (h *Handler) catalog(name string, prepare prepareFunc) api.HandlerFunc {
	return func(ctx context.Context, req *api.Request) (*api.Response, error) {
		switch req.Method {
		case http.MethodGet:
			docs, err := h.listCatalog(ctx, name, req.Query.Get("all") == "true")
			if err != nil {
				return nil, err
			}
			return api.OK(model.PublicAll(docs)), nil
		case http.MethodPost:
			return h.replaceAll(ctx, name, req, prepare)
		}
		return nil, errs.NewMethodNotAllowedError(req.Method, []string{http.MethodGet, http.MethodPost})
	}
}

func (h *Handler) listCatalog(ctx context.Context, name string, includeInactive bool) ([]bson.M, error) {
	coll, err := h.collection(ctx, name)
	if err != nil {
		return nil, err
	}
	filter := store.ActiveFilter()
	if includeInactive {
		filter = bson.M{}
	}
	docs, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}
	sortByOrder(docs)
	return docs, nil
}

// replaceAll deletes every document and inserts the posted ones. The two
// steps are not atomic: a reader between them sees an empty collection.
func (h *Handler) replaceAll(ctx context.Context, name string, req *api.Request, prepare prepareFunc) (*api.Response, error) {
	docs, err := req.Documents(false)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		delete(d, "_id")
	}
	if prepare != nil {
		if err := prepare(docs); err != nil {
			return nil, err
		}
	}

	coll, err := h.collection(ctx, name)
	if err != nil {
		return nil, err
	}
	removed, err := coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("clear %s: %w", name, err)
	}
	inserted, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", name, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("collection", name).
		Int64("removed", removed).
		Int("inserted", inserted).
		Msg("collection replaced")

	return api.OK(api.H{
		"success": true,
		"message": fmt.Sprintf("%d %s saved", inserted, name),
		"total":   inserted,
	}), nil
}

// prepareProducts assigns missing ids after the highest numeric id, and
// defaults active and display order.
func prepareProducts(docs []bson.M) error {
	var next int64
	for i, d := range docs {
		n, ok := model.Float(d, "id")
		if !ok {
			continue
		}
		// 2^63 is the first float64 past the int64 range
		if math.IsNaN(n) || n >= math.Exp2(63) || n < -math.Exp2(63) {
			return errs.NewValidationError("product id out of range", []errs.FieldError{
				{Field: "[" + strconv.Itoa(i) + "].id", Error: "must fit in a 64-bit integer"},
			})
		}
		if n >= float64(next) {
			next = int64(math.Floor(n)) + 1
		}
	}
	if next == 0 {
		next = 1
	}

	seen := map[string]bool{}
	for i, d := range docs {
		if model.String(d, "id") == "" {
			d["id"] = next
			next++
		}
		key := model.String(d, "id")
		if seen[key] {
			return errs.NewValidationError("duplicate product id "+key, []errs.FieldError{
				{Field: "[" + strconv.Itoa(i) + "].id", Error: "must be unique"},
			})
		}
		seen[key] = true

		if _, ok := model.Bool(d, "active"); !ok {
			d["active"] = true
		}
		if _, ok := model.Float(d, "order"); !ok {
			d["order"] = i
		}
	}
	return nil
}

// prepareCoupons stores codes in canonical form and rejects duplicates.
func prepareCoupons(docs []bson.M) error {
	seen := map[string]bool{}
	var fields []errs.FieldError
	for i, d := range docs {
		code := coupon.NormalizeCode(model.String(d, "code"))
		field := "[" + strconv.Itoa(i) + "].code"
		switch {
		case code == "":
			fields = append(fields, errs.FieldError{Field: field, Error: "is required"})
			continue
		case seen[code]:
			fields = append(fields, errs.FieldError{Field: field, Error: "duplicate code " + code})
			continue
		}
		seen[code] = true
		d["code"] = code

		if _, ok := model.Bool(d, "active"); !ok {
			d["active"] = true
		}
		if _, ok := model.Float(d, "usageCount"); !ok {
			d["usageCount"] = 0
		}
	}
	if len(fields) > 0 {
		return errs.NewValidationError("invalid coupons", fields)
	}
	return nil
}

// sortByOrder orders documents by their "order" field; documents without
// one keep their relative position after the ordered ones.
func sortByOrder(docs []bson.M) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, okA := model.Float(docs[i], "order")
		b, okB := model.Float(docs[j], "order")
		switch {
		case okA && okB:
			return a < b
		case okA:
			return true
		}
		return false
	})
}
