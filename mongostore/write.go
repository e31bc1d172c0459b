package mongostore

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"pollex.nl/joinbench/bench"
)

func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.authors.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("%w: delete authors: %w", bench.ErrWrite, err)
	}
	if _, err := s.books.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("%w: delete books: %w", bench.ErrWrite, err)
	}

	return nil
}

// InsertAuthors inserts with one ordered InsertMany; ids come from the result.
func (s *Store) InsertAuthors(ctx context.Context, authors []bench.Author) ([]bench.Author, error) {
	if len(authors) == 0 {
		return []bench.Author{}, nil
	}

	docs := lo.Map(authors, func(a bench.Author, _ int) authorDoc { return authorDoc{Name: a.Name} })
	ids, err := insertMany(ctx, s.authors, docs)
	if err != nil {
		return nil, fmt.Errorf("%w: insert authors: %w", bench.ErrWrite, err)
	}

	return lo.Map(docs, func(doc authorDoc, i int) bench.Author {
		doc.ID = ids[i]
		return doc.toAuthor()
	}), nil
}

// InsertBooks inserts with one ordered InsertMany. Books written before a
// failing document stay persisted.
func (s *Store) InsertBooks(ctx context.Context, books []bench.Book) ([]bench.Book, error) {
	if len(books) == 0 {
		return []bench.Book{}, nil
	}

	docs := make([]bookDoc, len(books))
	for i, b := range books {
		authorID, err := bson.ObjectIDFromHex(b.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("%w: book %q: author reference %q: %w", bench.ErrWrite, b.Title, b.AuthorID, err)
		}
		docs[i] = bookDoc{Title: b.Title, Author: authorID}
	}

	ids, err := insertMany(ctx, s.books, docs)
	if err != nil {
		return nil, fmt.Errorf("%w: insert books: %w", bench.ErrWrite, err)
	}

	return lo.Map(docs, func(doc bookDoc, i int) bench.Book {
		doc.ID = ids[i]
		return doc.toBook()
	}), nil
}

// insertMany runs one ordered InsertMany and returns the generated ids in
// document order.
func insertMany[D any](ctx context.Context, coll *mongo.Collection, docs []D) ([]bson.ObjectID, error) {
	res, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return nil, err
	}
	if len(res.InsertedIDs) != len(docs) {
		return nil, fmt.Errorf("inserted %d of %d documents", len(res.InsertedIDs), len(docs))
	}

	ids := make([]bson.ObjectID, len(res.InsertedIDs))
	for i, raw := range res.InsertedIDs {
		id, ok := raw.(bson.ObjectID)
		if !ok {
			return nil, fmt.Errorf("inserted id %d has type %T, want ObjectID", i, raw)
		}
		ids[i] = id
	}

	return ids, nil
}
