// Package mongostore implements bench.Store on MongoDB.
//
// Books keep the referenced author's _id in their "author" field. Reference
// resolution finds all books and then the referenced authors with batched $in
// queries; aggregation runs $lookup followed by $unwind on the server.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"pollex.nl/joinbench"
	"pollex.nl/joinbench/bench"
)

const (
	AuthorsCollection = "authors"
	BooksCollection   = "books"
)

var _ bench.Store = (*Store)(nil)

type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	authors   *mongo.Collection
	books     *mongo.Collection
	batchSize int
	logger    *slog.Logger
}

type Option func(*Store)

// WithBatchSize bounds the number of ids bound into one $in lookup.
func WithBatchSize(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Connect opens a client for uri, pings the primary and binds the two
// collections of database.
func Connect(ctx context.Context, uri, database string, opts ...Option) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect mongodb: %w", bench.ErrConnect, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping mongodb: %w", bench.ErrConnect, err)
	}

	return New(client, database, opts...), nil
}

// New binds an existing client.
func New(client *mongo.Client, database string, opts ...Option) *Store {
	db := client.Database(database)
	s := &Store{
		client:    client,
		db:        db,
		authors:   db.Collection(AuthorsCollection),
		books:     db.Collection(BooksCollection),
		batchSize: joinbench.DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database, collections included.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
