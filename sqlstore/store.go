// Package sqlstore implements bench.Store on SQLite and PostgreSQL.
//
// Reference resolution goes through the joinbench relation engine: books are
// fetched first, then their authors are looked up with batched IN queries.
// The aggregation counterpart is a single inner join evaluated by the database.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" database/sql driver
	"pollex.nl/joinbench"
	"pollex.nl/joinbench/bench"
)

var _ bench.Store = (*Store)(nil)

// Dialect describes how to reach one SQL database flavour.
type Dialect struct {
	Name        string
	Driver      string
	Placeholder squirrel.PlaceholderFormat
	// SingleConn pins the pool to one connection, required for in-memory SQLite.
	SingleConn bool
}

var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite3", Placeholder: squirrel.Question, SingleConn: true}
	Postgres = Dialect{Name: "postgres", Driver: "pgx", Placeholder: squirrel.Dollar}
)

var migrations = []string{
	`create table if not exists authors (
		id bigint primary key,
		name text not null
	)`,
	`create table if not exists books (
		id bigint primary key,
		title text not null,
		author_id bigint not null
	)`,
}

type Store struct {
	db        *sql.DB
	dialect   Dialect
	sq        squirrel.StatementBuilderType
	batchSize int
	logger    *slog.Logger
}

type Option func(*Store)

// WithBatchSize bounds the rows per insert statement and the keys per lookup.
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

// Open connects to dsn with the dialect's driver, pings it and applies the schema.
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", bench.ErrConnect, dialect.Name, err)
	}
	if dialect.SingleConn {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", bench.ErrConnect, dialect.Name, err)
	}

	store, err := New(ctx, db, dialect, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// New wraps an open database and applies the schema.
func New(ctx context.Context, db *sql.DB, dialect Dialect, opts ...Option) (*Store, error) {
	s := &Store{
		db:        db,
		dialect:   dialect,
		sq:        squirrel.StatementBuilder.PlaceholderFormat(dialect.Placeholder).RunWith(db),
		batchSize: joinbench.DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("%w: migrate %s: %w", bench.ErrConnect, dialect.Name, err)
		}
	}

	return s, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func (s *Store) inTx(ctx context.Context, fn func(sq squirrel.StatementBuilderType) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(s.sq.RunWith(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.ErrorContext(ctx, "rollback failed", "store", s.dialect.Name, "error", rbErr)
		}
		return err
	}

	return tx.Commit()
}
