package bench_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/joinbench/bench"
)

func TestGenerateRejectsInvalidScale(t *testing.T) {
	store := &spyStore{Store: openStore(t)}
	g := bench.NewGenerator(store, nil)

	_, err := g.Generate(context.Background(), 0, 10)
	assert.ErrorIs(t, err, bench.ErrInvalidScale)

	_, err = g.Generate(context.Background(), 1, -1)
	assert.ErrorIs(t, err, bench.ErrInvalidScale)

	assert.Zero(t, store.deletes.Load(), "invalid scales must not touch the store")
}

func TestGenerateNamesAreDeterministic(t *testing.T) {
	g := bench.NewGenerator(openStore(t), nil)

	dataset, err := g.Generate(context.Background(), 2, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"Author 0", "Author 1"},
		lo.Map(dataset.Authors, func(a bench.Author, _ int) string { return a.Name }))
	assert.Equal(t, []string{"Book 0", "Book 1", "Book 2"},
		lo.Map(dataset.Books, func(b bench.Book, _ int) string { return b.Title }))
	assert.Equal(t, []string{dataset.Authors[0].ID, dataset.Authors[1].ID, dataset.Authors[0].ID},
		lo.Map(dataset.Books, func(b bench.Book, _ int) string { return b.AuthorID }))
}

func TestGenerateBookFailureLeavesAuthors(t *testing.T) {
	ctx := context.Background()
	failure := fmt.Errorf("%w: disk full", bench.ErrWrite)
	store := &spyStore{Store: openStore(t), insertBookErr: failure}

	dataset, err := bench.NewGenerator(store, nil).Generate(ctx, 4, 8)
	require.ErrorIs(t, err, bench.ErrWrite)
	assert.Len(t, dataset.Authors, 4)
	assert.Empty(t, dataset.Books)

	counts, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, bench.Counts{Authors: 4, Books: 0}, counts)
}

func TestProperty_GenerateCountsAndReferences(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	g := bench.NewGenerator(store, nil)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("stored counts match the request and every reference is a generated author", prop.ForAll(
		func(numAuthors, numBooks int) bool {
			dataset, err := g.Generate(ctx, numAuthors, numBooks)
			if err != nil {
				return false
			}

			counts, err := store.Count(ctx)
			if err != nil || counts.Authors != int64(numAuthors) || counts.Books != int64(numBooks) {
				return false
			}

			ids := lo.SliceToMap(dataset.Authors, func(a bench.Author) (string, struct{}) { return a.ID, struct{}{} })
			return lo.EveryBy(dataset.Books, func(b bench.Book) bool {
				_, ok := ids[b.AuthorID]
				return ok
			})
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 60),
	))

	properties.Property("both strategies resolve every generated book", prop.ForAll(
		func(numAuthors, numBooks int) bool {
			if _, err := g.Generate(ctx, numAuthors, numBooks); err != nil {
				return false
			}

			populated, err := bench.Populate{Store: store}.Resolve(ctx)
			if err != nil {
				return false
			}
			aggregated, err := bench.Aggregate{Store: store}.Resolve(ctx)
			if err != nil {
				return false
			}

			return len(populated) == numBooks &&
				assert.ObjectsAreEqual(pairings(populated), pairings(aggregated))
		},
		gen.IntRange(1, 10),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func pairings(resolved []bench.Resolved) map[string]string {
	return lo.SliceToMap(resolved, func(r bench.Resolved) (string, string) {
		if r.Author == nil {
			return r.Book.ID, ""
		}
		return r.Book.ID, r.Author.ID
	})
}
