package joinbench_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/joinbench"
)

var (
	author = joinbench.New[Author]("authors").
		AddSimpleField("id", func(t *Author) any { return &t.ID }).
		AddSimpleField("name", func(t *Author) any { return &t.Name })

	book = joinbench.New[Book]("books").
		AddSimpleField("id", func(t *Book) any { return &t.ID }).
		AddSimpleField("title", func(t *Book) any { return &t.Title }).
		AddSimpleField("author_id", func(t *Book) any { return &t.AuthorID }).
		AddRelation("author",
			joinbench.HasOne(author, "id",
				func(b Book) int64 { return b.AuthorID },
				func(a Author) int64 { return a.ID },
				func(b *Book, a Author) { b.Author = &a },
				joinbench.DependsOn("author_id"),
			),
		)

	review = joinbench.New[Review]("reviews").
		AddSimpleField("id", func(t *Review) any { return &t.ID }).
		AddSimpleField("body", func(t *Review) any { return &t.Body }).
		AddSimpleField("book_id", func(t *Review) any { return &t.BookID }).
		AddRelation("book",
			joinbench.HasOne(book, "id",
				func(r Review) int64 { return r.BookID },
				func(b Book) int64 { return b.ID },
				func(r *Review, b Book) { r.Book = &b },
				joinbench.DependsOn("book_id"),
			),
		)
)

func TestBasicModelUsage(t *testing.T) {
	// Arrange
	_, sq := setupDB(t)
	seed(sq)

	t.Run("select fields", func(t *testing.T) {
		books, err := book.Query("id", "title").Collect(context.Background(), sq)
		require.NoError(t, err)

		// Assert
		assert.Len(t, books, 4)
		for _, b := range books {
			assert.NotEmpty(t, b.ID)
			assert.NotEmpty(t, b.Title)
			assert.Empty(t, b.AuthorID)
			assert.Nil(t, b.Author)
		}
	})

	t.Run("select all by not providing fields", func(t *testing.T) {
		books, err := book.Query().Collect(context.Background(), sq)
		require.NoError(t, err)

		// Assert
		assert.Len(t, books, 4)
		for _, b := range books {
			assert.NotEmpty(t, b.ID)
			assert.NotEmpty(t, b.Title)
			assert.NotEmpty(t, b.AuthorID)
		}
	})

	t.Run("query mods narrow the result", func(t *testing.T) {
		books, err := book.Query().
			ModifyQuery(func(q joinbench.Q, table string) joinbench.Q {
				return q.Where(joinbench.TableCol(table, "author_id")+" = ?", 2)
			}).
			Collect(context.Background(), sq)
		require.NoError(t, err)

		assert.Len(t, books, 2)
	})
}

func TestSelectErrors(t *testing.T) {
	_, sq := setupDB(t)

	t.Run("unknown field", func(t *testing.T) {
		_, err := book.Query("isbn").Collect(context.Background(), sq)
		assert.ErrorIs(t, err, joinbench.ErrNoSuchField)
	})

	t.Run("nesting on a plain field", func(t *testing.T) {
		_, err := book.Query("title.length").Collect(context.Background(), sq)
		assert.ErrorIs(t, err, joinbench.ErrNoSuchRelation)
	})

	t.Run("unknown nested field", func(t *testing.T) {
		_, err := book.Query("author.age").Collect(context.Background(), sq)
		assert.ErrorIs(t, err, joinbench.ErrNoSuchField)
	})

	t.Run("schema check", func(t *testing.T) {
		assert.NoError(t, review.Check("book.author.name"))
		assert.ErrorIs(t, review.Check("book.publisher"), joinbench.ErrNoSuchField)
	})
}

func TestMultiColumnField(t *testing.T) {
	_, sq := setupDB(t)
	seed(sq)

	type byline struct {
		BookID     int64
		AuthorID   int64
		AuthorName string
	}
	bylines := joinbench.New[byline]("books").
		ModifyQuery(func(q joinbench.Q, table string) joinbench.Q {
			return q.Join("authors ON authors.id = " + joinbench.TableCol(table, "author_id"))
		}).
		AddSimpleField("id", func(t *byline) any { return &t.BookID }).
		AddField("author",
			func(q joinbench.Q, _ string) joinbench.Q { return q.Columns("authors.id", "authors.name") },
			joinbench.Scan(
				func(t *byline) any { return &t.AuthorID },
				func(t *byline) any { return &t.AuthorName },
			),
		)

	rows, err := bylines.Query().Collect(context.Background(), sq)
	require.NoError(t, err)

	assert.ElementsMatch(t, []byline{
		{BookID: 1, AuthorID: 1, AuthorName: "Jeff"},
		{BookID: 2, AuthorID: 1, AuthorName: "Jeff"},
		{BookID: 3, AuthorID: 2, AuthorName: "Madonna"},
		{BookID: 4, AuthorID: 2, AuthorName: "Madonna"},
	}, rows)
}
