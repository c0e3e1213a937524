package repogen

import (
	"context"
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/eventhub/pg"
)

const (
	CodeObjectNotFound    = "OBJECT_NOT_FOUND"
	codeMultipleRowsFound = "MULTIPLE_ROWS_FOUND"
)

// FilterFunc turns a filter value into WHERE clauses.
type FilterFunc[F any] func(q *bun.SelectQuery, filters F) *bun.SelectQuery

// PgReadOnlyRepo provides read-only access to a PostgreSQL table using bun ORM.
type PgReadOnlyRepo[E any, F any] struct {
	idb          bun.IDB
	entityName   string
	schemaName   string
	notFoundCode string

	filterFunc FilterFunc[F]
}

// PgRepoBuilder configures PgReadOnlyRepo and PgRepo with sensible defaults.
type PgRepoBuilder[E any, F any] struct {
	idb             bun.IDB
	entityName      string
	schemaName      string
	notFoundCode    string
	filterFunc      FilterFunc[F]
	constraintCodes map[string]string
}

// NewPgRepoBuilder creates a builder. The entity name defaults to the Go type name of E.
func NewPgRepoBuilder[E any, F any](idb bun.IDB) *PgRepoBuilder[E, F] {
	return &PgRepoBuilder[E, F]{
		idb:             idb,
		entityName:      nameOf(new(E)),
		schemaName:      "public",
		notFoundCode:    CodeObjectNotFound,
		filterFunc:      func(q *bun.SelectQuery, _ F) *bun.SelectQuery { return q },
		constraintCodes: map[string]string{},
	}
}

// WithEntityName sets the name used in error messages.
func (b *PgRepoBuilder[E, F]) WithEntityName(name string) *PgRepoBuilder[E, F] {
	b.entityName = name
	return b
}

// WithSchemaName sets the schema name.
func (b *PgRepoBuilder[E, F]) WithSchemaName(name string) *PgRepoBuilder[E, F] {
	b.schemaName = name
	return b
}

// WithNotFoundCode sets the error code for not found errors.
func (b *PgRepoBuilder[E, F]) WithNotFoundCode(code string) *PgRepoBuilder[E, F] {
	b.notFoundCode = code
	return b
}

// WithFilterFunc sets the filter function.
func (b *PgRepoBuilder[E, F]) WithFilterFunc(fn FilterFunc[F]) *PgRepoBuilder[E, F] {
	b.filterFunc = fn
	return b
}

// WithConstraintCode maps a constraint name to the error code returned when a write violates it,
// e.g. "events_company_id_fkey" -> "COMPANY_NOT_FOUND".
func (b *PgRepoBuilder[E, F]) WithConstraintCode(constraint, code string) *PgRepoBuilder[E, F] {
	b.constraintCodes[constraint] = code
	return b
}

// BuildReadOnly creates a PgReadOnlyRepo.
func (b *PgRepoBuilder[E, F]) BuildReadOnly() *PgReadOnlyRepo[E, F] {
	return &PgReadOnlyRepo[E, F]{
		idb:          b.idb,
		entityName:   b.entityName,
		schemaName:   b.schemaName,
		notFoundCode: b.notFoundCode,
		filterFunc:   b.filterFunc,
	}
}

// Build creates a read-write PgRepo.
func (b *PgRepoBuilder[E, F]) Build() *PgRepo[E, F] {
	return &PgRepo[E, F]{
		PgReadOnlyRepo:  b.BuildReadOnly(),
		constraintCodes: b.constraintCodes,
	}
}

func (r *PgReadOnlyRepo[E, F]) Get(ctx context.Context, filters F) (*E, error) {
	// two rows are enough to tell "one" from "many"
	rows, q, err := r.scan(ctx, filters, 2) //nolint:mnd // see above
	if err != nil {
		return nil, err
	}

	switch len(rows) {
	case 1:
		return &rows[0], nil
	case 0:
		return nil, errx.New(
			fmt.Sprintf("%s not found", r.entityName),
			errx.WithCode(r.notFoundCode),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(pg.ErrorDetails(nil, q)),
		)
	default:
		return nil, errx.New(
			fmt.Sprintf("filter matches more than one %s", r.entityName),
			errx.WithCode(codeMultipleRowsFound),
			errx.WithDetails(pg.ErrorDetails(nil, q)),
		)
	}
}

func (r *PgReadOnlyRepo[E, F]) List(ctx context.Context, filters F) ([]E, error) {
	rows, _, err := r.scan(ctx, filters, 0)
	return rows, err
}

func (r *PgReadOnlyRepo[E, F]) FirstOrNil(ctx context.Context, filters F) (*E, error) {
	rows, _, err := r.scan(ctx, filters, 1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// ListWithCount returns the entities matching filters together with the number of
// matching rows ignoring any limit or offset the filter applies.
func (r *PgReadOnlyRepo[E, F]) ListWithCount(ctx context.Context, filters F) ([]E, int, error) {
	rows, q, err := r.scan(ctx, filters, 0)
	if err != nil {
		return nil, 0, err
	}

	// bun drops ORDER BY from count queries
	q = q.Offset(0).Limit(0)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return rows, total, nil
}

func (r *PgReadOnlyRepo[E, F]) Exists(ctx context.Context, filters F) (bool, error) {
	q := r.idb.NewSelect().Model((*E)(nil))
	q = r.filterFunc(q.ModelTableExpr(r.tableExpr(q.GetModel())), filters)

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return exists, nil
}

// scan selects the rows matching filters. A positive limit is applied before the
// filter, so a filter with its own limit wins.
func (r *PgReadOnlyRepo[E, F]) scan(ctx context.Context, filters F, limit int) ([]E, *bun.SelectQuery, error) {
	rows := make([]E, 0)
	q := r.idb.NewSelect().Model(&rows)
	q = q.ModelTableExpr(r.tableExpr(q.GetModel()))
	if limit > 0 {
		q = q.Limit(limit)
	}
	q = r.filterFunc(q, filters)

	if err := q.Scan(ctx); err != nil {
		return nil, q, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return rows, q, nil
}

// nameOf returns the type name of v, dereferencing pointers.
func nameOf(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		return t.Elem().Name()
	}
	return t.Name()
}
