package joinbench

import "github.com/Masterminds/squirrel"

type (
	Q        = squirrel.SelectBuilder
	QueryMod func(q Q, table string) Q
)

func Col(names ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, name := range names {
			q = q.Column(TableCol(table, name))
		}
		return q
	}
}

func TableCol(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

// WhereIn restricts the query to rows whose column is one of keys.
func WhereIn[K any](col string, keys []K) QueryMod {
	return func(q Q, table string) Q {
		return q.Where(squirrel.Eq{TableCol(table, col): keys})
	}
}

func applyMods(q Q, table string, mods []QueryMod) Q {
	for _, mod := range mods {
		q = mod(q, table)
	}

	return q
}
