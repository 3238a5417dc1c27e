// Package mongostore implements the persistence port on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"sync"
	"time"

	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/store"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store owns the process wide client. The first Collection call dials;
// a failed dial is not cached so the next request tries again.
type Store struct {
	opts   Options
	logger zerolog.Logger

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

func New(opts Options, logger zerolog.Logger) *Store {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	return &Store{opts: opts, logger: logger}
}

func (s *Store) database(ctx context.Context) (*mongo.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	if s.opts.URI == "" {
		return nil, errs.NewConnectionError("configure", errs.ErrMissingConnectionString)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(s.opts.URI).
		SetServerSelectionTimeout(s.opts.ConnectTimeout).
		SetConnectTimeout(s.opts.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errs.NewConnectionError("connect", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.NewConnectionError("ping", err)
	}

	s.logger.Info().Str("database", s.opts.Database).Msg("connected to MongoDB")
	s.client = client
	s.db = client.Database(s.opts.Database)
	return s.db, nil
}

func (s *Store) Collection(ctx context.Context, name string) (store.Collection, error) {
	db, err := s.database(ctx)
	if err != nil {
		return nil, err
	}
	return &collection{coll: db.Collection(name)}, nil
}

// Close disconnects the client. Calling it again is a no-op.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	s.db = nil
	return err
}

type collection struct {
	coll *mongo.Collection
}

func (c *collection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	var doc bson.M
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *collection) Find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *collection) InsertMany(ctx context.Context, docs []bson.M) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = d
	}
	res, err := c.coll.InsertMany(ctx, batch)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (c *collection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *collection) UpsertOne(ctx context.Context, filter, set, setOnInsert bson.M) (store.UpsertResult, error) {
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = setOnInsert
	}
	if len(update) == 0 {
		return store.UpsertResult{}, errors.New("upsert with an empty update")
	}

	res, err := c.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return store.UpsertResult{}, err
	}
	return store.UpsertResult{
		Created: res.UpsertedCount > 0,
		Updated: res.MatchedCount > 0,
	}, nil
}
