package sqlstore

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"pollex.nl/joinbench/bench"
)

func (s *Store) DeleteAll(ctx context.Context) error {
	err := s.inTx(ctx, func(sq squirrel.StatementBuilderType) error {
		for _, table := range []string{"authors", "books"} {
			if _, err := sq.Delete(table).ExecContext(ctx); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", bench.ErrWrite, err)
	}

	return nil
}

// InsertAuthors allocates ids after the current maximum and inserts all
// authors in one transaction.
func (s *Store) InsertAuthors(ctx context.Context, authors []bench.Author) ([]bench.Author, error) {
	if len(authors) == 0 {
		return []bench.Author{}, nil
	}

	var rows []authorRow
	err := s.inTx(ctx, func(sq squirrel.StatementBuilderType) error {
		next, err := nextID(ctx, sq, "authors")
		if err != nil {
			return err
		}

		rows = lo.Map(authors, func(a bench.Author, i int) authorRow {
			return authorRow{ID: next + int64(i), Name: a.Name}
		})
		for _, chunk := range lo.Chunk(rows, s.batchSize) {
			q := sq.Insert("authors").Columns("id", "name")
			for _, row := range chunk {
				q = q.Values(row.ID, row.Name)
			}
			if _, err := q.ExecContext(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: insert authors: %w", bench.ErrWrite, err)
	}

	return lo.Map(rows, func(row authorRow, _ int) bench.Author { return row.toAuthor() }), nil
}

// InsertBooks allocates ids after the current maximum and inserts all books
// in one transaction. Unlike mongostore's ordered InsertMany, a failure here
// leaves no book behind.
func (s *Store) InsertBooks(ctx context.Context, books []bench.Book) ([]bench.Book, error) {
	if len(books) == 0 {
		return []bench.Book{}, nil
	}

	rows := make([]bookRow, len(books))
	for i, b := range books {
		authorID, err := parseID(b.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("%w: book %q: author reference %q: %w", bench.ErrWrite, b.Title, b.AuthorID, err)
		}
		rows[i] = bookRow{Title: b.Title, AuthorID: authorID}
	}

	err := s.inTx(ctx, func(sq squirrel.StatementBuilderType) error {
		next, err := nextID(ctx, sq, "books")
		if err != nil {
			return err
		}

		for i := range rows {
			rows[i].ID = next + int64(i)
		}
		for _, chunk := range lo.Chunk(rows, s.batchSize) {
			q := sq.Insert("books").Columns("id", "title", "author_id")
			for _, row := range chunk {
				q = q.Values(row.ID, row.Title, row.AuthorID)
			}
			if _, err := q.ExecContext(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: insert books: %w", bench.ErrWrite, err)
	}

	return lo.Map(rows, func(row bookRow, _ int) bench.Book { return row.toBook() }), nil
}

func nextID(ctx context.Context, sq squirrel.StatementBuilderType, table string) (int64, error) {
	var last int64
	err := sq.Select("coalesce(max(id), 0)").From(table).QueryRowContext(ctx).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("allocate %s ids: %w", table, err)
	}

	return last + 1, nil
}
