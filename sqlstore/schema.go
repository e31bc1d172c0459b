package sqlstore

import (
	"strconv"

	"pollex.nl/joinbench"
	"pollex.nl/joinbench/bench"
)

type authorRow struct {
	ID   int64
	Name string
}

type bookRow struct {
	ID       int64
	Title    string
	AuthorID int64
	Author   *authorRow
}

// lookupRow is one row of the books/authors inner join.
type lookupRow struct {
	Book   bookRow
	Author authorRow
}

var (
	authorSchema = joinbench.New[authorRow]("authors").
			AddSimpleField("id", func(t *authorRow) any { return &t.ID }).
			AddSimpleField("name", func(t *authorRow) any { return &t.Name })

	bookSchema = joinbench.New[bookRow]("books").
			AddSimpleField("id", func(t *bookRow) any { return &t.ID }).
			AddSimpleField("title", func(t *bookRow) any { return &t.Title }).
			AddSimpleField("author_id", func(t *bookRow) any { return &t.AuthorID }).
			AddRelation("author",
			joinbench.HasOne(authorSchema, "id",
				func(b bookRow) int64 { return b.AuthorID },
				func(a authorRow) int64 { return a.ID },
				func(b *bookRow, a authorRow) { b.Author = &a },
				joinbench.DependsOn("author_id"),
			),
		)

	lookupSchema = joinbench.New[lookupRow]("books").
			ModifyQuery(func(q joinbench.Q, table string) joinbench.Q {
			return q.Join("authors ON authors.id = " + joinbench.TableCol(table, "author_id"))
		}).
		AddSimpleField("id", func(t *lookupRow) any { return &t.Book.ID }).
		AddSimpleField("title", func(t *lookupRow) any { return &t.Book.Title }).
		AddSimpleField("author_id", func(t *lookupRow) any { return &t.Book.AuthorID }).
		AddField("author", joinedCols("authors.id", "authors.name"), joinbench.Scan(
			func(t *lookupRow) any { return &t.Author.ID },
			func(t *lookupRow) any { return &t.Author.Name },
		))
)

// joinedCols selects fully qualified columns of a joined table.
func joinedCols(cols ...string) joinbench.QueryMod {
	return func(q joinbench.Q, _ string) joinbench.Q { return q.Columns(cols...) }
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

func (r authorRow) toAuthor() bench.Author {
	return bench.Author{ID: formatID(r.ID), Name: r.Name}
}

func (r bookRow) toBook() bench.Book {
	return bench.Book{ID: formatID(r.ID), Title: r.Title, AuthorID: formatID(r.AuthorID)}
}

func (r bookRow) toResolved() bench.Resolved {
	resolved := bench.Resolved{Book: r.toBook()}
	if r.Author != nil {
		author := r.Author.toAuthor()
		resolved.Author = &author
	}
	return resolved
}

func (r lookupRow) toResolved() bench.Resolved {
	author := r.Author.toAuthor()
	return bench.Resolved{Book: r.Book.toBook(), Author: &author}
}
