// Package store is the persistence port: one lazily connected document
// database per process, exposed as named collections.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection names.
const (
	Products = "products"
	Coupons  = "coupons"
	Featured = "featured"
	Orders   = "orders"
	Users    = "users"
	Settings = "config"
	Hours    = "hours"
)

// ErrNoDocument is returned by FindOne when nothing matches.
var ErrNoDocument = errors.New("no document matches the filter")

// Store hands out collections. Implementations connect on first use and
// reuse that connection until Close. Connection failures are returned as
// *errs.ConnectionError.
type Store interface {
	Collection(ctx context.Context, name string) (Collection, error)
	Close(ctx context.Context) error
}

// Collection is the subset of document operations handlers rely on.
// Filters use the mongo query shape (equality, $ne, $in, $or, $exists).
type Collection interface {
	FindOne(ctx context.Context, filter bson.M) (bson.M, error)
	Find(ctx context.Context, filter bson.M) ([]bson.M, error)
	InsertMany(ctx context.Context, docs []bson.M) (int, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	// UpsertOne sets fields on the first document matching filter, inserting
	// it when absent. setOnInsert is applied only on insert.
	UpsertOne(ctx context.Context, filter, set, setOnInsert bson.M) (UpsertResult, error)
}

type UpsertResult struct {
	Created bool
	Updated bool
}

// ActiveFilter matches documents not explicitly disabled.
func ActiveFilter() bson.M {
	return bson.M{"active": bson.M{"$ne": false}}
}
