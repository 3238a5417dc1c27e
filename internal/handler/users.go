package handler

import (
	"context"
	"fmt"
	"net/http"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/credential"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"go.mongodb.org/mongo-driver/bson"
)

// Users lists customers (GET) or upserts them by phone (POST).
func (h *Handler) Users(ctx context.Context, req *api.Request) (*api.Response, error) {
	switch req.Method {
	case http.MethodGet:
		coll, err := h.collection(ctx, store.Users)
		if err != nil {
			return nil, err
		}
		docs, err := coll.Find(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		return api.OK(model.PublicAll(docs)), nil
	case http.MethodPost:
		return h.saveUsers(ctx, req)
	}
	return nil, errs.NewMethodNotAllowedError(req.Method, []string{http.MethodGet, http.MethodPost})
}

func (h *Handler) saveUsers(ctx context.Context, req *api.Request) (*api.Response, error) {
	items, err := req.Documents(true)
	if err != nil {
		return nil, err
	}
	coll, err := h.collection(ctx, store.Users)
	if err != nil {
		return nil, err
	}

	now := h.now().UTC()
	res := h.upsertBatch(ctx, coll, upsertPlan{
		collection: store.Users,
		key:        "phone",
		prepare: func(item bson.M) error {
			item["phone"] = model.String(item, "phone")
			item["updatedAt"] = now
			pw, present := item["password"]
			if !present {
				return nil
			}
			plain, _ := pw.(string)
			if plain == "" {
				// never overwrite a stored credential with nothing
				delete(item, "password")
				return nil
			}
			if credential.IsHashed(plain) {
				return nil
			}
			hashed, err := credential.Hash(plain)
			if err != nil {
				return err
			}
			item["password"] = hashed
			return nil
		},
		onInsert: bson.M{"creationDate": now, "active": true},
	}, items)

	return api.OK(res), nil
}
