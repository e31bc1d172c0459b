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

func (s *Store) Count(ctx context.Context) (bench.Counts, error) {
	authors, err := s.authors.CountDocuments(ctx, bson.D{})
	if err != nil {
		return bench.Counts{}, fmt.Errorf("%w: count authors: %w", bench.ErrRead, err)
	}
	books, err := s.books.CountDocuments(ctx, bson.D{})
	if err != nil {
		return bench.Counts{}, fmt.Errorf("%w: count books: %w", bench.ErrRead, err)
	}

	return bench.Counts{Authors: authors, Books: books}, nil
}

// ResolveReferences finds every book, then the referenced authors with $in
// queries of at most batchSize ids, and merges them in memory.
func (s *Store) ResolveReferences(ctx context.Context) ([]bench.Resolved, error) {
	var books []bookDoc
	if err := findAll(ctx, s.books, bson.D{}, &books); err != nil {
		return nil, fmt.Errorf("%w: find books: %w", bench.ErrRead, err)
	}

	ids := lo.Uniq(lo.Map(books, func(b bookDoc, _ int) bson.ObjectID { return b.Author }))
	authors := make(map[bson.ObjectID]authorDoc, len(ids))
	for _, chunk := range lo.Chunk(ids, s.batchSize) {
		var found []authorDoc
		filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: chunk}}}}
		if err := findAll(ctx, s.authors, filter, &found); err != nil {
			return nil, fmt.Errorf("%w: find authors: %w", bench.ErrRead, err)
		}
		for _, a := range found {
			authors[a.ID] = a
		}
	}
	s.logger.DebugContext(ctx, "author references resolved",
		"books", len(books),
		"referenced", len(ids),
		"found", len(authors),
	)

	return lo.Map(books, func(b bookDoc, _ int) bench.Resolved {
		resolved := bench.Resolved{Book: b.toBook()}
		if a, ok := authors[b.Author]; ok {
			author := a.toAuthor()
			resolved.Author = &author
		}
		return resolved
	}), nil
}

// LookupPipeline joins each book's author reference against authors._id and
// unwinds the match array, dropping books without an author.
func LookupPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: AuthorsCollection},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "authorDetails"},
		}}},
		{{Key: "$unwind", Value: "$authorDetails"}},
	}
}

func (s *Store) AggregateLookup(ctx context.Context) ([]bench.Resolved, error) {
	cursor, err := s.books.Aggregate(ctx, LookupPipeline(), options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate books: %w", bench.ErrRead, err)
	}

	var docs []lookupDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode aggregation: %w", bench.ErrRead, err)
	}

	return lo.Map(docs, func(d lookupDoc, _ int) bench.Resolved { return d.toResolved() }), nil
}

func findAll[D any](ctx context.Context, coll *mongo.Collection, filter bson.D, out *[]D) error {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return err
	}

	return cursor.All(ctx, out)
}
