package sqlstore

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"pollex.nl/joinbench/bench"
)

func (s *Store) Count(ctx context.Context) (bench.Counts, error) {
	var counts bench.Counts
	for table, dst := range map[string]*int64{"authors": &counts.Authors, "books": &counts.Books} {
		if err := s.sq.Select("count(*)").From(table).QueryRowContext(ctx).Scan(dst); err != nil {
			return bench.Counts{}, fmt.Errorf("%w: count %s: %w", bench.ErrRead, table, err)
		}
	}

	return counts, nil
}

// ResolveReferences fetches every book, then resolves the distinct author ids
// in batches through the author relation.
func (s *Store) ResolveReferences(ctx context.Context) ([]bench.Resolved, error) {
	rows, err := bookSchema.Query("*", "author").
		WithBatchSize(s.batchSize).
		Collect(ctx, s.sq)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve author references: %w", bench.ErrRead, err)
	}

	return lo.Map(rows, func(row bookRow, _ int) bench.Resolved { return row.toResolved() }), nil
}

// AggregateLookup resolves every book with one inner join, so books without an
// author are dropped.
func (s *Store) AggregateLookup(ctx context.Context) ([]bench.Resolved, error) {
	rows, err := lookupSchema.Query().Collect(ctx, s.sq)
	if err != nil {
		return nil, fmt.Errorf("%w: join books with authors: %w", bench.ErrRead, err)
	}

	return lo.Map(rows, func(row lookupRow, _ int) bench.Resolved { return row.toResolved() }), nil
}
