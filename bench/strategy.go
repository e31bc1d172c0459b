package bench

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
)

// Strategy resolves every Book to its Author against the current dataset.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context) ([]Resolved, error)
}

// Populate resolves references on the client: books first, then their authors.
// Dangling references are kept with a nil Author and reported as a warning.
type Populate struct {
	Store  Store
	Logger *slog.Logger
}

func (Populate) Name() string { return "populate" }

func (p Populate) Resolve(ctx context.Context) ([]Resolved, error) {
	resolved, err := p.Store.ResolveReferences(ctx)
	if err != nil {
		return nil, err
	}

	if dangling := lo.CountBy(resolved, func(r Resolved) bool { return r.Author == nil }); dangling > 0 {
		logger := p.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.WarnContext(ctx, "dangling author references",
			"strategy", p.Name(),
			"dangling", dangling,
			"books", len(resolved),
		)
	}

	return resolved, nil
}

// Aggregate joins on the server with a lookup stage followed by an unwind stage.
type Aggregate struct {
	Store Store
}

func (Aggregate) Name() string { return "aggregate" }

func (a Aggregate) Resolve(ctx context.Context) ([]Resolved, error) {
	return a.Store.AggregateLookup(ctx)
}

// Strategies returns the two strategies in benchmark order. Populate comes
// first, so it wins ties.
func Strategies(store Store, logger *slog.Logger) []Strategy {
	return []Strategy{
		Populate{Store: store, Logger: logger},
		Aggregate{Store: store},
	}
}
