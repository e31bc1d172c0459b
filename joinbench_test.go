package joinbench_test

import (
	"database/sql"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type Author struct {
	ID   int64
	Name string
}

type Book struct {
	ID       int64
	Title    string
	AuthorID int64
	Author   *Author
}

type Review struct {
	ID     int64
	Body   string
	BookID int64
	Book   *Book
}

func setupDB(t testing.TB) (*sql.DB, squirrel.StatementBuilderType) {
	db, err := sql.Open("sqlite3", "file::memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrate)
	require.NoError(t, err)

	sq := squirrel.StatementBuilder.RunWith(db)

	return db, sq
}

//nolint:errcheck
func seed(sq squirrel.StatementBuilderType) {
	sq.Insert("authors").
		Values(1, "Jeff").
		Values(2, "Madonna").Exec()
	sq.Insert("books").
		Values(1, "Life of Jeff", 1).
		Values(2, "Cooking like Jeff", 1).
		Values(3, "Sing baby sing", 2).
		Values(4, "the singeth hath endeth", 2).Exec()
	sq.Insert("reviews").
		Values(1, "Great book!", 1).
		Values(2, "Very insightful", 2).
		Values(3, "A masterpiece", 3).
		Values(4, "Could be better", 4).Exec()
}

const migrate = `
	create table authors (
		id integer not null,
		name text not null
	);
	create table books (
		id integer not null,
		title text not null,
		author_id integer
	);
	create table reviews (
		id integer not null,
		body text not null,
		book_id integer
	);
	`
