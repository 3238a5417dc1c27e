// Package memstore is an in-process implementation of the persistence
// port. It backs `database.driver=memory` runs and the handler tests.
package memstore

import (
	"context"
	"sync"

	"cardapio-backend/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
	closed      bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{collections: map[string]*Collection{}}
}

func (s *Store) Collection(_ context.Context, name string) (store.Collection, error) {
	return s.named(name), nil
}

// Seed inserts docs directly, bypassing handlers.
func (s *Store) Seed(name string, docs ...bson.M) {
	_, _ = s.named(name).InsertMany(context.Background(), docs)
}

// Docs returns a copy of every document in the named collection.
func (s *Store) Docs(name string) []bson.M {
	docs, _ := s.named(name).Find(context.Background(), bson.M{})
	return docs
}

func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) named(name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &Collection{}
		s.collections[name] = c
	}
	return c
}

// Collection keeps documents in insertion order.
type Collection struct {
	mu   sync.RWMutex
	docs []bson.M
}

var _ store.Collection = (*Collection)(nil)

func (c *Collection) FindOne(_ context.Context, filter bson.M) (bson.M, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.docs {
		if Match(d, filter) {
			return clone(d), nil
		}
	}
	return nil, store.ErrNoDocument
}

func (c *Collection) Find(_ context.Context, filter bson.M) ([]bson.M, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []bson.M{}
	for _, d := range c.docs {
		if Match(d, filter) {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (c *Collection) InsertMany(_ context.Context, docs []bson.M) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		d = clone(d)
		if _, ok := d["_id"]; !ok {
			d["_id"] = primitive.NewObjectID()
		}
		c.docs = append(c.docs, d)
	}
	return len(docs), nil
}

func (c *Collection) DeleteMany(_ context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.docs[:0]
	var n int64
	for _, d := range c.docs {
		if Match(d, filter) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	return n, nil
}

func (c *Collection) DeleteOne(_ context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		if Match(d, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *Collection) UpsertOne(_ context.Context, filter, set, setOnInsert bson.M) (store.UpsertResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.docs {
		if Match(d, filter) {
			for k, v := range set {
				d[k] = v
			}
			return store.UpsertResult{Updated: true}, nil
		}
	}

	doc := bson.M{"_id": primitive.NewObjectID()}
	// equality terms of the filter seed the new document, as mongo does
	for k, v := range filter {
		if k == "" || k[0] == '$' {
			continue
		}
		if _, isOp := asOperators(v); isOp {
			continue
		}
		doc[k] = v
	}
	for k, v := range set {
		doc[k] = v
	}
	for k, v := range setOnInsert {
		doc[k] = v
	}
	c.docs = append(c.docs, doc)
	return store.UpsertResult{Created: true}, nil
}

func clone(d bson.M) bson.M {
	out := make(bson.M, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
