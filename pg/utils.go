package pg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories react to.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return sqlState(err) == sqlStateUniqueViolation
}

// IsForeignKeyViolation reports whether err references a row that does not exist.
func IsForeignKeyViolation(err error) bool {
	return sqlState(err) == sqlStateForeignKeyViolation
}

// ConstraintName returns the constraint violated by err, or "" when err is not a PostgreSQL error.
func ConstraintName(err error) string {
	if pgErr := asPgError(err); pgErr != nil {
		return pgErr.ConstraintName
	}
	return ""
}

// ErrorDetails describes a failed query for errx details. The rendered query is
// included when q can be rendered.
func ErrorDetails(err error, q fmt.Stringer) errx.D {
	d := errx.D{}
	if sql := render(q); sql != "" {
		d["query"] = strings.ReplaceAll(sql, `"`, ``)
	}

	pgErr := asPgError(err)
	if pgErr == nil {
		return d
	}
	d["pg.code"] = pgErr.Code
	d["pg.message"] = pgErr.Message
	d["pg.detail"] = pgErr.Detail
	d["pg.table"] = pgErr.TableName
	d["pg.column"] = pgErr.ColumnName
	d["pg.constraint"] = pgErr.ConstraintName
	return d
}

func sqlState(err error) string {
	if pgErr := asPgError(err); pgErr != nil {
		return pgErr.Code
	}
	return ""
}

func asPgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// render returns q as SQL, or "" if q is nil or panics while rendering.
// bun queries with unresolved models may panic in String.
func render(q fmt.Stringer) (sql string) {
	defer func() {
		if recover() != nil {
			sql = ""
		}
	}()
	if q == nil {
		return ""
	}
	return q.String()
}
