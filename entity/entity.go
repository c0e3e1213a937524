// Package entity holds the persisted models of the event hub and their repositories.
// Every row belongs to a company; repositories are always queried with a CompanyID filter.
package entity

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/eventhub/pg"
	"github.com/rise-and-shine/eventhub/sorter"
)

const (
	CodeCompanyNotFound  = "COMPANY_NOT_FOUND"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeEventNotFound    = "EVENT_NOT_FOUND"
	CodeActivityNotFound = "ACTIVITY_NOT_FOUND"
)

// Company is a tenant.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`
	pg.Timestamps

	ID   uuid.UUID `bun:"id,pk,nullzero,type:uuid,default:gen_random_uuid()" json:"id"`
	Name string    `bun:"name,notnull"                               json:"name"`
}

// User is a member of a company with an optional profile image.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	pg.Timestamps

	ID              uuid.UUID `bun:"id,pk,nullzero,type:uuid,default:gen_random_uuid()" json:"id"`
	CompanyID       uuid.UUID `bun:"company_id,type:uuid,notnull"              json:"company_id"`
	FirstName       string    `bun:"first_name,notnull"                        json:"first_name"`
	LastName        string    `bun:"last_name,notnull"                         json:"last_name"`
	ProfileImageURL string    `bun:"profile_image_url,nullzero"                json:"-"`
}

// Event is a company event with an optional cover image.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`
	pg.Timestamps

	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid,default:gen_random_uuid()" json:"id"`
	CompanyID     uuid.UUID `bun:"company_id,type:uuid,notnull"              json:"company_id"`
	Title         string    `bun:"title,notnull"                             json:"title"`
	Description   string    `bun:"description,nullzero"                      json:"description"`
	CoverImageURL string    `bun:"cover_image_url,nullzero"                  json:"-"`
}

// Activity is a part of an event with an optional cover image.
type Activity struct {
	bun.BaseModel `bun:"table:activities,alias:a"`
	pg.Timestamps

	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid,default:gen_random_uuid()" json:"id"`
	CompanyID     uuid.UUID `bun:"company_id,type:uuid,notnull"              json:"company_id"`
	EventID       uuid.UUID `bun:"event_id,type:uuid,notnull"                json:"event_id"`
	Title         string    `bun:"title,notnull"                             json:"title"`
	CoverImageURL string    `bun:"cover_image_url,nullzero"                  json:"-"`
}

// ActivitySortFields are the columns activities may be listed by.
//
//nolint:gochecknoglobals // read-only whitelist
var ActivitySortFields = []string{"title", "created_at", "updated_at"}

// Filter narrows repository queries. Nil and zero fields are ignored.
type Filter struct {
	ID        *uuid.UUID
	CompanyID *uuid.UUID
	EventID   *uuid.UUID

	Limit  int
	Offset int
	Sort   sorter.SortOpts
}

// ByID returns a filter for one row of a company.
func ByID(companyID, id uuid.UUID) Filter {
	return Filter{ID: &id, CompanyID: &companyID}
}
