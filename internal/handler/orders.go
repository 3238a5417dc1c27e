package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

// orderDateFields are read in turn to find when an order was placed.
var orderDateFields = []string{"creationDate", "createdAt", "date", "timestamp"}

func (h *Handler) Orders(ctx context.Context, req *api.Request) (*api.Response, error) {
	switch req.Method {
	case http.MethodGet:
		return h.listOrders(ctx, req)
	case http.MethodPost:
		return h.saveOrders(ctx, req)
	case http.MethodDelete:
		return h.deleteOrder(ctx, req)
	}
	return nil, errs.NewMethodNotAllowedError(req.Method, []string{http.MethodGet, http.MethodPost, http.MethodDelete})
}

func (h *Handler) listOrders(ctx context.Context, req *api.Request) (*api.Response, error) {
	coll, err := h.collection(ctx, store.Orders)
	if err != nil {
		return nil, err
	}
	filter := bson.M{}
	if status := strings.TrimSpace(req.Query.Get("status")); status != "" {
		filter["status"] = status
	}
	docs, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	sortNewestFirst(docs)
	return api.OK(model.PublicAll(docs)), nil
}

func orderTime(doc bson.M) (time.Time, bool) {
	for _, f := range orderDateFields {
		if t, ok := model.Time(doc, f); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortNewestFirst puts undated orders last.
func sortNewestFirst(docs []bson.M) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, okA := orderTime(docs[i])
		b, okB := orderTime(docs[j])
		switch {
		case okA && okB:
			return a.After(b)
		case okA:
			return true
		}
		return false
	})
}

func (h *Handler) saveOrders(ctx context.Context, req *api.Request) (*api.Response, error) {
	items, err := req.Documents(true)
	if err != nil {
		return nil, err
	}
	coll, err := h.collection(ctx, store.Orders)
	if err != nil {
		return nil, err
	}

	now := h.now().UTC()
	res := h.upsertBatch(ctx, coll, upsertPlan{
		collection: store.Orders,
		key:        "id",
		prepare: func(item bson.M) error {
			item["updatedAt"] = now
			return nil
		},
		onInsert: bson.M{"creationDate": now},
	}, items)

	zerolog.Ctx(ctx).Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("skipped", len(res.Skipped)).
		Int("failed", len(res.Errors)).
		Msg("orders saved")

	return api.OK(res), nil
}

// deleteOrder removes an order whose id may have been stored as a string
// or a number. The id comes from ?id= or the JSON body.
func (h *Handler) deleteOrder(ctx context.Context, req *api.Request) (*api.Response, error) {
	id, err := orderID(req)
	if err != nil {
		return nil, err
	}

	coll, err := h.collection(ctx, store.Orders)
	if err != nil {
		return nil, err
	}

	attempts := []any{id}
	str := strings.TrimSpace(model.String(bson.M{"id": id}, "id"))
	if str != id {
		attempts = append(attempts, str)
	}
	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		attempts = append(attempts, n)
	}

	for _, candidate := range attempts {
		n, err := coll.DeleteOne(ctx, bson.M{"id": candidate})
		if err != nil {
			return nil, fmt.Errorf("delete order: %w", err)
		}
		if n > 0 {
			return deletedResponse(id), nil
		}
	}

	doc, err := coll.FindOne(ctx, bson.M{"id": bson.M{"$in": model.IDVariants(id)}})
	if errors.Is(err, store.ErrNoDocument) {
		return nil, errs.NewNotFoundError(fmt.Sprintf("order %s not found", str))
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	n, err := coll.DeleteOne(ctx, bson.M{"_id": doc["_id"]})
	if err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}
	if n == 0 {
		return nil, errs.NewNotFoundError(fmt.Sprintf("order %s not found", str))
	}
	return deletedResponse(id), nil
}

func deletedResponse(id any) *api.Response {
	return api.OK(api.H{"success": true, "deleted": 1, "id": id})
}

func orderID(req *api.Request) (any, error) {
	if q := strings.TrimSpace(req.Query.Get("id")); q != "" {
		return q, nil
	}
	if req.HasBody() {
		var body struct {
			ID any `json:"id"`
		}
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return nil, errs.NewValidationError("invalid JSON body: "+err.Error(), nil)
		}
		if body.ID != nil && strings.TrimSpace(model.String(bson.M{"id": body.ID}, "id")) != "" {
			return body.ID, nil
		}
	}
	return nil, errs.NewValidationError("order id is required", []errs.FieldError{{Field: "id", Error: "is required"}})
}
