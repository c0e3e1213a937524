package entity

import (
	"context"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/eventhub/repogen"
)

type (
	UserRepo     = repogen.Repo[User, Filter]
	EventRepo    = repogen.Repo[Event, Filter]
	ActivityRepo = repogen.Repo[Activity, Filter]
)

// Repos groups the repositories used by the API.
type Repos struct {
	Users      UserRepo
	Events     EventRepo
	Activities ActivityRepo
}

// NewPgRepos builds PostgreSQL backed repositories on idb.
func NewPgRepos(idb bun.IDB) Repos {
	return Repos{
		Users: repogen.NewPgRepoBuilder[User, Filter](idb).
			WithEntityName("user").
			WithNotFoundCode(CodeUserNotFound).
			WithFilterFunc(filterFunc("u")).
			WithConstraintCode("users_company_id_fkey", CodeCompanyNotFound).
			Build(),
		Events: repogen.NewPgRepoBuilder[Event, Filter](idb).
			WithEntityName("event").
			WithNotFoundCode(CodeEventNotFound).
			WithFilterFunc(filterFunc("e")).
			WithConstraintCode("events_company_id_fkey", CodeCompanyNotFound).
			Build(),
		Activities: repogen.NewPgRepoBuilder[Activity, Filter](idb).
			WithEntityName("activity").
			WithNotFoundCode(CodeActivityNotFound).
			WithFilterFunc(filterFunc("a")).
			WithConstraintCode("activities_event_id_fkey", CodeEventNotFound).
			Build(),
	}
}

func filterFunc(alias string) repogen.FilterFunc[Filter] {
	return func(q *bun.SelectQuery, f Filter) *bun.SelectQuery {
		if f.ID != nil {
			q = q.Where("?.id = ?", bun.Ident(alias), *f.ID)
		}
		if f.CompanyID != nil {
			q = q.Where("?.company_id = ?", bun.Ident(alias), *f.CompanyID)
		}
		if f.EventID != nil && alias == "a" {
			q = q.Where("?.event_id = ?", bun.Ident(alias), *f.EventID)
		}
		q = f.Sort.Apply(q, alias)
		if f.Limit > 0 {
			q = q.Limit(f.Limit)
		}
		if f.Offset > 0 {
			q = q.Offset(f.Offset)
		}
		return q
	}
}

// CreateSchema creates the tables if they do not exist yet.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	models := []struct {
		model any
		fks   []string
	}{
		{model: (*Company)(nil)},
		{model: (*User)(nil), fks: []string{`("company_id") REFERENCES "companies" ("id") ON DELETE CASCADE`}},
		{model: (*Event)(nil), fks: []string{`("company_id") REFERENCES "companies" ("id") ON DELETE CASCADE`}},
		{model: (*Activity)(nil), fks: []string{
			`("company_id") REFERENCES "companies" ("id") ON DELETE CASCADE`,
			`("event_id") REFERENCES "events" ("id") ON DELETE CASCADE`,
		}},
	}

	for _, m := range models {
		q := db.NewCreateTable().Model(m.model).IfNotExists()
		for _, fk := range m.fks {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return errx.Wrap(err)
		}
	}
	return nil
}
