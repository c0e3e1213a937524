package api

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/rise-and-shine/eventhub/entity"
)

// uploadForm carries the parsed multipart form of image uploads.
type uploadForm struct {
	form *multipart.Form
}

func (u *uploadForm) SetForm(form *multipart.Form) { u.form = form }

type idInput struct {
	ID string `params:"id" json:"id" validate:"required,uuid"`
}

type getInput struct {
	ID      string `params:"id"     json:"id"      validate:"required,uuid"`
	Variant string `query:"variant" json:"variant" validate:"image_variant"`
}

type listActivitiesInput struct {
	EventID    string `params:"id"         json:"eventId"    validate:"required,uuid"`
	PageNumber int    `query:"pageNumber"  json:"pageNumber" validate:"gte=0"`
	PageSize   int    `query:"pageSize"    json:"pageSize"   validate:"gte=0"`
	Sort       string `query:"sort"        json:"sort"       validate:"max=200"`
	Variant    string `query:"variant"     json:"variant"    validate:"image_variant"`
}

type updateUserInput struct {
	uploadForm `validate:"-"`

	ID        string `params:"id"       json:"id"        validate:"required,uuid"`
	FirstName string `form:"firstName"  json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `form:"lastName"   json:"lastName"  validate:"required,notblank,max=100"`
}

type createEventInput struct {
	uploadForm `validate:"-"`

	Title       string `form:"title"       json:"title"       validate:"required,notblank,max=200"`
	Description string `form:"description" json:"description" validate:"max=5000"`
}

type updateEventInput struct {
	uploadForm `validate:"-"`

	ID          string `params:"id"        json:"id"          validate:"required,uuid"`
	Title       string `form:"title"       json:"title"       validate:"required,notblank,max=200"`
	Description string `form:"description" json:"description" validate:"max=5000"`
}

type createActivityInput struct {
	uploadForm `validate:"-"`

	EventID string `params:"id"  json:"eventId" validate:"required,uuid"`
	Title   string `form:"title" json:"title"   validate:"required,notblank,max=200"`
}

type updateActivityInput struct {
	uploadForm `validate:"-"`

	ID    string `params:"id"  json:"id"    validate:"required,uuid"`
	Title string `form:"title" json:"title" validate:"required,notblank,max=200"`
}

// noContent is the output of use cases answered with 204.
type noContent struct{}

type userOutput struct {
	ID           uuid.UUID `json:"id"`
	CompanyID    uuid.UUID `json:"companyId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newUserOutput(u *entity.User, image *string) *userOutput {
	return &userOutput{
		ID:           u.ID,
		CompanyID:    u.CompanyID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: image,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type eventOutput struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"companyId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverImage  *string   `json:"coverImage"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newEventOutput(e *entity.Event, image *string) *eventOutput {
	return &eventOutput{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Title:       e.Title,
		Description: e.Description,
		CoverImage:  image,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type activityOutput struct {
	ID         uuid.UUID `json:"id"`
	CompanyID  uuid.UUID `json:"companyId"`
	EventID    uuid.UUID `json:"eventId"`
	Title      string    `json:"title"`
	CoverImage *string   `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newActivityOutput(a *entity.Activity, image *string) *activityOutput {
	return &activityOutput{
		ID:         a.ID,
		CompanyID:  a.CompanyID,
		EventID:    a.EventID,
		Title:      a.Title,
		CoverImage: image,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
