package repogen

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/eventhub/pg"
)

const (
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeReferenceNotFound = "REFERENCE_NOT_FOUND"

	codeUnexpectedRowCount = "UNEXPECTED_ROW_COUNT"
)

// PgRepo adds writes to PgReadOnlyRepo.
type PgRepo[E any, F any] struct {
	*PgReadOnlyRepo[E, F]

	// constraintCodes maps constraint names to error codes, e.g. "events_company_id_fkey" -> "COMPANY_NOT_FOUND".
	constraintCodes map[string]string
}

var _ Repo[struct{}, struct{}] = (*PgRepo[struct{}, struct{}])(nil)

func (r *PgRepo[E, F]) Create(ctx context.Context, entity *E) (*E, error) {
	q := r.idb.NewInsert().Model(entity).Returning("*")
	q = q.ModelTableExpr(r.tableExpr(q.GetModel()))
	if _, err := q.Exec(ctx); err != nil {
		return nil, r.writeError(err, "create", q)
	}
	return entity, nil
}

func (r *PgRepo[E, F]) Update(ctx context.Context, entity *E) (*E, error) {
	q := r.idb.NewUpdate().Model(entity).WherePK().Returning("*")
	q = q.ModelTableExpr(r.tableExpr(q.GetModel()))
	res, err := q.Exec(ctx)
	if err != nil {
		return nil, r.writeError(err, "update", q)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	if n == 0 {
		return nil, errx.New(
			fmt.Sprintf("%s to update not found", r.entityName),
			errx.WithCode(r.notFoundCode),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(pg.ErrorDetails(nil, q)),
		)
	}
	return entity, nil
}

func (r *PgRepo[E, F]) Delete(ctx context.Context, entity *E) error {
	q := r.idb.NewDelete().Model(entity).WherePK()
	q = q.ModelTableExpr(r.tableExpr(q.GetModel()))
	res, err := q.Exec(ctx)
	if err != nil {
		return r.writeError(err, "delete", q)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	switch n {
	case 1:
		return nil
	case 0:
		return errx.New(
			fmt.Sprintf("%s to delete not found", r.entityName),
			errx.WithCode(r.notFoundCode),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(pg.ErrorDetails(nil, q)),
		)
	default:
		return errx.New(
			fmt.Sprintf("deleted %d rows of %s, expected one", n, r.entityName),
			errx.WithCode(codeUnexpectedRowCount),
			errx.WithDetails(pg.ErrorDetails(nil, q)),
		)
	}
}

// writeError classifies a failed write. A violated foreign key means the referenced
// row is missing and yields T_NotFound; a unique violation yields T_Conflict.
// Constraints registered with WithConstraintCode report their own code.
func (r *PgRepo[E, F]) writeError(err error, action string, q fmt.Stringer) error {
	details := errx.WithDetails(pg.ErrorDetails(err, q))
	code, mapped := r.constraintCodes[pg.ConstraintName(err)]

	switch {
	case pg.IsForeignKeyViolation(err):
		if !mapped {
			code = CodeReferenceNotFound
		}
		return errx.New(
			fmt.Sprintf("cannot %s %s: referenced row does not exist", action, r.entityName),
			errx.WithCode(code), errx.WithType(errx.T_NotFound), details,
		)
	case pg.IsUniqueViolation(err):
		if !mapped {
			code = CodeAlreadyExists
		}
		return errx.New(
			fmt.Sprintf("cannot %s %s: already exists", action, r.entityName),
			errx.WithCode(code), errx.WithType(errx.T_Conflict), details,
		)
	case mapped:
		return errx.New(
			fmt.Sprintf("cannot %s %s", action, r.entityName),
			errx.WithCode(code), errx.WithType(errx.T_Conflict), details,
		)
	default:
		return errx.Wrap(err, details)
	}
}

// tableExpr qualifies the model's table with the configured schema, keeping its alias.
func (r *PgReadOnlyRepo[E, F]) tableExpr(model any) (string, bun.Ident, bun.Ident, bun.Ident) {
	table := model.(bun.TableModel).Table() //nolint:errcheck // repositories only hold table models
	return "?.? AS ?", bun.Ident(r.schemaName), bun.Ident(table.Name), bun.Ident(table.Alias)
}
