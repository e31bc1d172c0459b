package bench

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

// Dataset is the result of one generation, with store assigned ids.
type Dataset struct {
	Authors []Author
	Books   []Book
}

// Generator replaces the store contents with a deterministic dataset.
type Generator struct {
	store  Store
	logger *slog.Logger
}

func NewGenerator(store Store, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{store: store, logger: logger}
}

// Generate deletes every Author and Book, inserts numAuthors authors named
// "Author <i>", then numBooks books titled "Book <i>" where book i references
// author i mod numAuthors. There is no rollback between the two inserts.
func (g *Generator) Generate(ctx context.Context, numAuthors, numBooks int) (Dataset, error) {
	if err := (Scale{Authors: numAuthors, Books: numBooks}).Validate(); err != nil {
		return Dataset{}, err
	}

	start := time.Now()

	if err := g.store.DeleteAll(ctx); err != nil {
		return Dataset{}, fmt.Errorf("delete dataset: %w", err)
	}

	authors, err := g.store.InsertAuthors(ctx, lo.Times(numAuthors, func(i int) Author {
		return Author{Name: fmt.Sprintf("Author %d", i)}
	}))
	if err != nil {
		return Dataset{}, fmt.Errorf("insert %d authors: %w", numAuthors, err)
	}
	if len(authors) != numAuthors {
		return Dataset{}, fmt.Errorf("%w: inserted %d of %d authors", ErrWrite, len(authors), numAuthors)
	}

	books := lo.Times(numBooks, func(i int) Book {
		return Book{
			Title:    fmt.Sprintf("Book %d", i),
			AuthorID: authors[i%numAuthors].ID,
		}
	})
	if len(books) > 0 {
		books, err = g.store.InsertBooks(ctx, books)
		if err != nil {
			return Dataset{Authors: authors}, fmt.Errorf("insert %d books: %w", numBooks, err)
		}
	}

	g.logger.InfoContext(ctx, "dataset generated",
		"authors", len(authors),
		"books", len(books),
		"elapsed", time.Since(start),
	)

	return Dataset{Authors: authors, Books: books}, nil
}
