package joinbench

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	Resolve[M any] func(
		ctx context.Context,
		sq squirrel.StatementBuilderType,
		parents []M,
		fields []string,
		batchSize int,
	) error
	FieldCheck                func(fields string) error
	Binder[M, N any]          func(parents []M, children []N)
	ModelQueryModifier[M any] func(model ModelQuery[M]) ModelQuery[M]
)

type Relation[M any] struct {
	Resolve       Resolve[M]
	Check         FieldCheck
	ModelQueryMod ModelQueryModifier[M]
}

// HasOne resolves a reference held by the parent (foreignKey) against the child's
// key column. Distinct keys are looked up in chunks of at most batchSize; parents
// whose key matches no child are left untouched.
func HasOne[M, N any, K comparable](
	child *ModelSchema[N],
	keyCol string,
	foreignKey func(M) K,
	primaryKey func(N) K,
	assign func(*M, N),
	depends []string,
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		Resolve: func(
			ctx context.Context,
			sq squirrel.StatementBuilderType,
			parents []M,
			fields []string,
			batchSize int,
		) error {
			keys := lo.Uniq(lo.Map(parents, func(parent M, _ int) K { return foreignKey(parent) }))
			if batchSize < 1 {
				batchSize = DefaultBatchSize
			}

			children := make([]N, 0, len(keys))
			for _, chunk := range lo.Chunk(keys, batchSize) {
				found, err := child.Query(fields...).
					Select(keyCol).
					ModifyQuery(WhereIn(keyCol, chunk)).
					Collect(ctx, sq)
				if err != nil {
					return err
				}
				children = append(children, found...)
			}

			BindByKey(foreignKey, primaryKey, assign)(parents, children)

			return nil
		},
		ModelQueryMod: func(model ModelQuery[M]) ModelQuery[M] {
			if len(depends) == 0 {
				return model
			}
			return model.Select(depends...)
		},
	}
}

// BindByKey indexes children by key once and assigns the match to every parent
// referencing it.
func BindByKey[M, N any, K comparable](
	foreignKey func(M) K,
	primaryKey func(N) K,
	assign func(*M, N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		index := lo.KeyBy(children, primaryKey)

		for ix := range parents {
			parent := &parents[ix]

			child, ok := index[foreignKey(*parent)]
			if !ok {
				continue
			}

			assign(parent, child)
		}
	}
}

func DependsOn(fields ...string) []string {
	return fields
}
