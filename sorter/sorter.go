// Package sorter parses client sort strings such as "title:asc,created_at:desc"
// and applies them to bun queries.
package sorter

import (
	"slices"
	"strings"

	"github.com/uptrace/bun"
)

type (
	SortOpts []Opt

	SortDirection string
)

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Opt is a single sort key.
type Opt struct {
	F string        // F is the column to sort by.
	D SortDirection // D is the sort direction.
}

// MakeFromStr parses a sort string into options.
// Pairs with a field outside allowedFields, an unknown direction or a repeated field are dropped.
func MakeFromStr(sortString string, allowedFields ...string) SortOpts {
	if sortString == "" {
		return nil
	}

	var options SortOpts
	for pair := range strings.SplitSeq(sortString, ",") {
		field, dir, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}

		field = strings.TrimSpace(field)
		if !slices.Contains(allowedFields, field) || options.Has(field) {
			continue
		}

		d := SortDirection(strings.ToLower(strings.TrimSpace(dir)))
		if d != Asc && d != Desc {
			continue
		}

		options = append(options, Opt{F: field, D: d})
	}

	return options
}

// Make builds SortOpts from individual options.
func Make(sortOptions ...Opt) SortOpts {
	return sortOptions
}

// Has reports whether field is already sorted on.
func (s SortOpts) Has(field string) bool {
	return slices.ContainsFunc(s, func(o Opt) bool { return o.F == field })
}

// OrDefault returns s, or fallback when s is empty.
func (s SortOpts) OrDefault(fallback ...Opt) SortOpts {
	if len(s) == 0 {
		return fallback
	}
	return s
}

// Apply adds ORDER BY clauses for s to q, qualifying columns with the table alias.
func (s SortOpts) Apply(q *bun.SelectQuery, alias string) *bun.SelectQuery {
	for _, o := range s {
		if o.D == Desc {
			q = q.OrderExpr("?.? DESC", bun.Ident(alias), bun.Ident(o.F))
		} else {
			q = q.OrderExpr("?.? ASC", bun.Ident(alias), bun.Ident(o.F))
		}
	}
	return q
}

// ToSQL renders o as an order clause, e.g. "title asc".
func (o Opt) ToSQL() string {
	return o.F + " " + string(o.D)
}
