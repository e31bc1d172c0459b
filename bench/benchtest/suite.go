// Package benchtest holds the behaviour every bench.Store implementation must
// show, runnable against any backend.
package benchtest

import (
	"context"
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/joinbench/bench"
)

// Harness describes the store under test.
type Harness struct {
	// Open returns a ready store. Contents left from earlier subtests are fine.
	Open func(t *testing.T) bench.Store
	// MissingID returns a well-formed author id that no author will ever have.
	MissingID func() string
}

// Pairings renders resolved records as sorted "title -> name" strings so the
// output of different strategies can be compared.
func Pairings(resolved []bench.Resolved) []string {
	pairs := lo.Map(resolved, func(r bench.Resolved, _ int) string {
		if r.Author == nil {
			return r.Book.Title + " -> <dangling>"
		}
		return r.Book.Title + " -> " + r.Author.Name
	})
	slices.Sort(pairs)
	return pairs
}

func Run(t *testing.T, h Harness) {
	ctx := context.Background()

	setup := func(t *testing.T) (bench.Store, *bench.Generator) {
		store := h.Open(t)
		return store, bench.NewGenerator(store, nil)
	}

	t.Run("generate populates both collections round-robin", func(t *testing.T) {
		store, gen := setup(t)

		dataset, err := gen.Generate(ctx, 5, 10)
		require.NoError(t, err)

		counts, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, bench.Counts{Authors: 5, Books: 10}, counts)

		require.Len(t, dataset.Authors, 5)
		require.Len(t, dataset.Books, 10)
		ids := lo.Map(dataset.Authors, func(a bench.Author, _ int) string { return a.ID })
		assert.Len(t, lo.Uniq(ids), 5)

		refs := lo.CountValuesBy(dataset.Books, func(b bench.Book) string { return b.AuthorID })
		assert.Len(t, refs, 5)
		for _, id := range ids {
			assert.Equal(t, 2, refs[id], "author %s", id)
		}
		for i, b := range dataset.Books {
			assert.Equal(t, dataset.Authors[i%5].ID, b.AuthorID)
		}
	})

	t.Run("generate twice yields the same observable dataset", func(t *testing.T) {
		store, gen := setup(t)

		_, err := gen.Generate(ctx, 3, 7)
		require.NoError(t, err)
		first, err := bench.Populate{Store: store}.Resolve(ctx)
		require.NoError(t, err)

		_, err = gen.Generate(ctx, 3, 7)
		require.NoError(t, err)
		second, err := bench.Populate{Store: store}.Resolve(ctx)
		require.NoError(t, err)

		counts, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, bench.Counts{Authors: 3, Books: 7}, counts)
		assert.Equal(t, Pairings(first), Pairings(second))
	})

	t.Run("generate replaces the previous dataset", func(t *testing.T) {
		store, gen := setup(t)

		_, err := gen.Generate(ctx, 4, 12)
		require.NoError(t, err)
		_, err = gen.Generate(ctx, 2, 3)
		require.NoError(t, err)

		counts, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, bench.Counts{Authors: 2, Books: 3}, counts)
	})

	t.Run("both strategies return identical pairings", func(t *testing.T) {
		store, gen := setup(t)

		_, err := gen.Generate(ctx, 7, 20)
		require.NoError(t, err)

		populated, err := bench.Populate{Store: store}.Resolve(ctx)
		require.NoError(t, err)
		aggregated, err := bench.Aggregate{Store: store}.Resolve(ctx)
		require.NoError(t, err)

		require.Len(t, populated, 20)
		require.Len(t, aggregated, 20)
		assert.Equal(t, Pairings(populated), Pairings(aggregated))
		for _, r := range aggregated {
			require.NotNil(t, r.Author)
			assert.Equal(t, r.Book.AuthorID, r.Author.ID)
		}
	})

	t.Run("no books resolves to nothing", func(t *testing.T) {
		store, gen := setup(t)

		_, err := gen.Generate(ctx, 1, 0)
		require.NoError(t, err)

		counts, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, bench.Counts{Authors: 1, Books: 0}, counts)

		populated, err := bench.Populate{Store: store}.Resolve(ctx)
		require.NoError(t, err)
		aggregated, err := bench.Aggregate{Store: store}.Resolve(ctx)
		require.NoError(t, err)
		assert.Empty(t, populated)
		assert.Empty(t, aggregated)
	})

	t.Run("dangling references are kept by populate and dropped by aggregate", func(t *testing.T) {
		store, gen := setup(t)

		_, err := gen.Generate(ctx, 2, 4)
		require.NoError(t, err)
		_, err = store.InsertBooks(ctx, []bench.Book{{Title: "Orphan", AuthorID: h.MissingID()}})
		require.NoError(t, err)

		populated, err := bench.Populate{Store: store}.Resolve(ctx)
		require.NoError(t, err)
		aggregated, err := bench.Aggregate{Store: store}.Resolve(ctx)
		require.NoError(t, err)

		assert.Len(t, populated, 5)
		assert.Len(t, aggregated, 4)
		assert.Contains(t, Pairings(populated), "Orphan -> <dangling>")
		assert.NotContains(t, Pairings(aggregated), "Orphan -> <dangling>")
	})

	t.Run("delete all on an empty store", func(t *testing.T) {
		store, _ := setup(t)

		require.NoError(t, store.DeleteAll(ctx))
		require.NoError(t, store.DeleteAll(ctx))

		counts, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, bench.Counts{}, counts)
	})
}
