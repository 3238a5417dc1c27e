package handler

import (
	"context"
	"strings"

	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

// BatchResult reports an upsert-by-key batch.
type BatchResult struct {
	Success bool        `json:"success"`
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Total   int         `json:"total"`
	Skipped []ItemIssue `json:"skipped"`
	Errors  []ItemIssue `json:"errors"`
}

// ItemIssue points at one batch item that was not saved.
type ItemIssue struct {
	Index int    `json:"index"`
	Key   any    `json:"key,omitempty"`
	Error string `json:"error"`
}

type upsertPlan struct {
	collection string
	key        string
	// prepare may rewrite the item before it is written; an error fails
	// only that item.
	prepare func(item bson.M) error
	// onInsert holds fields written only when the item is new, unless the
	// item already carries them.
	onInsert bson.M
}

// upsertBatch saves items one at a time keyed by plan.key. Items without a
// key are skipped and a failing item does not stop the others.
func (h *Handler) upsertBatch(ctx context.Context, coll store.Collection, plan upsertPlan, items []bson.M) BatchResult {
	log := zerolog.Ctx(ctx)
	res := BatchResult{Skipped: []ItemIssue{}, Errors: []ItemIssue{}}

	for i, item := range items {
		key, ok := item[plan.key]
		if !ok || key == nil || strings.TrimSpace(model.String(item, plan.key)) == "" {
			log.Warn().Str("collection", plan.collection).Int("index", i).Msgf("item without %s skipped", plan.key)
			h.metrics.ObserveSkipped(plan.collection, "missing_key")
			res.Skipped = append(res.Skipped, ItemIssue{Index: i, Error: "missing " + plan.key})
			continue
		}

		delete(item, "_id")
		if plan.prepare != nil {
			if err := plan.prepare(item); err != nil {
				res.Errors = append(res.Errors, h.itemError(ctx, plan.collection, i, key, err))
				continue
			}
		}

		onInsert := bson.M{}
		for k, v := range plan.onInsert {
			if _, present := item[k]; !present {
				onInsert[k] = v
			}
		}

		filter := bson.M{plan.key: bson.M{"$in": model.IDVariants(key)}}
		out, err := coll.UpsertOne(ctx, filter, item, onInsert)
		if err != nil {
			res.Errors = append(res.Errors, h.itemError(ctx, plan.collection, i, key, err))
			continue
		}
		if out.Created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	res.Total = res.Created + res.Updated
	res.Success = len(res.Errors) == 0
	return res
}

func (h *Handler) itemError(ctx context.Context, collection string, index int, key any, err error) ItemIssue {
	zerolog.Ctx(ctx).Error().Err(err).Str("collection", collection).Interface("key", key).Msg("batch item failed")
	h.metrics.ObserveSkipped(collection, "error")
	return ItemIssue{Index: index, Key: key, Error: shortError(err)}
}

// shortError keeps item diagnostics to one short line.
func shortError(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
