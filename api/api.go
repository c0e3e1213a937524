// Package api exposes users, events and activities over HTTP.
//
// Every route is scoped to the company of the authenticated actor. Image fields are
// uploaded as multipart files and handed to the image asset pipeline, which stages,
// derives and commits them together with the entity row.
package api

import (
	"context"
	"mime/multipart"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rise-and-shine/eventhub/entity"
	"github.com/rise-and-shine/eventhub/http/server/forward"
	"github.com/rise-and-shine/eventhub/imagefs"
	"github.com/rise-and-shine/eventhub/imagefs/types"
	"github.com/rise-and-shine/eventhub/logger"
	"github.com/rise-and-shine/eventhub/meta"
)

// Multipart fields and file name prefixes of the image uploads.
const (
	fieldProfileImage = "profileImage"
	fieldCoverImage   = "coverImage"

	prefixUser     = "profileImage"
	prefixEvent    = "eventImage"
	prefixActivity = "activityImage"
)

// Handlers holds the dependencies of the HTTP use cases.
type Handlers struct {
	repos  entity.Repos
	assets imagefs.AssetService
	log    logger.Logger
}

// New creates the handlers.
func New(repos entity.Repos, assets imagefs.AssetService, log logger.Logger) *Handlers {
	return &Handlers{repos: repos, assets: assets, log: log.Named("api")}
}

// Register mounts every route on r. r must already run the authentication middleware.
func (h *Handlers) Register(r fiber.Router) {
	withForm := forward.WithFormParser(parseForm)
	created := forward.WithStatus(fiber.StatusCreated)
	noContent := forward.WithStatus(fiber.StatusNoContent)

	r.Get("/users/:id", handle(h, "get_user", h.getUser))
	r.Put("/users/:id", handle(h, "update_user", h.updateUser, withForm))
	r.Delete("/users/:id/profile-image", handle(h, "clear_profile_image", h.clearProfileImage, noContent))
	r.Delete("/users/:id", handle(h, "delete_user", h.deleteUser, noContent))

	r.Get("/events/:id", handle(h, "get_event", h.getEvent))
	r.Post("/events", handle(h, "create_event", h.createEvent, withForm, created))
	r.Put("/events/:id", handle(h, "update_event", h.updateEvent, withForm))
	r.Delete("/events/:id/cover-image", handle(h, "clear_event_cover", h.clearEventCover, noContent))
	r.Delete("/events/:id", handle(h, "delete_event", h.deleteEvent, noContent))

	r.Get("/activities/:id", handle(h, "get_activity", h.getActivity))
	r.Get("/events/:id/activities", handle(h, "list_activities", h.listActivities))
	r.Post("/events/:id/activities", handle(h, "create_activity", h.createActivity, withForm, created))
	r.Put("/activities/:id", handle(h, "update_activity", h.updateActivity, withForm))
	r.Delete("/activities/:id/cover-image", handle(h, "clear_activity_cover", h.clearActivityCover, noContent))
	r.Delete("/activities/:id", handle(h, "delete_activity", h.deleteActivity, noContent))
}

// handle forwards a route to fn, logging through the handlers' logger.
func handle[I, O any](
	h *Handlers,
	operationID string,
	fn func(ctx context.Context, in I) (O, error),
	opts ...forward.Option,
) fiber.Handler {
	opts = append([]forward.Option{forward.WithLogger(h.log)}, opts...)
	return forward.ToUserAction(userAction[I, O]{id: operationID, fn: fn}, opts...)
}

// userAction adapts a handler method to ucdef.UserAction.
type userAction[I, O any] struct {
	id string
	fn func(ctx context.Context, in I) (O, error)
}

func (a userAction[I, O]) OperationID() string { return a.id }

func (a userAction[I, O]) Execute(ctx context.Context, in I) (O, error) { return a.fn(ctx, in) }

// parseForm reports unreadable multipart bodies as malformed uploads.
func parseForm(c *fiber.Ctx) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, types.NewMalformedUpload("multipart body cannot be parsed", err)
	}
	return form, nil
}

// companyID returns the tenant of the request set by the authentication middleware.
func companyID(ctx context.Context) (uuid.UUID, error) {
	raw, err := meta.ShouldGetMeta(ctx, meta.CompanyID)
	if err != nil {
		return uuid.Nil, errx.Wrap(err, errx.WithType(errx.T_Authentication))
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errx.Wrap(err, errx.WithType(errx.T_Authentication))
	}
	return id, nil
}

// scope returns the filter for one row of the request's company.
func scope(ctx context.Context, rawID string) (entity.Filter, error) {
	company, err := companyID(ctx)
	if err != nil {
		return entity.Filter{}, err
	}
	// ids are validated as uuids before the use case runs
	return entity.ByID(company, uuid.MustParse(rawID)), nil
}

// stage runs the upload gate on the form of in, if any.
func (h *Handlers) stage(ctx context.Context, form *multipart.Form, field, prefix string) (*imagefs.StagedFile, error) {
	if form == nil {
		return nil, nil //nolint:nilnil // nothing uploaded
	}
	staged, err := h.assets.Stage(ctx, form, field, prefix)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return staged, nil
}

// inline renders reference for a response; variant was validated by the request schema.
func (h *Handlers) inline(ctx context.Context, reference, variant string) *string {
	v, err := types.ParseVariant(variant)
	if err != nil {
		return nil
	}
	return h.assets.Inline(ctx, reference, v)
}

// releaseAll deletes the files of references that no row points to anymore.
// Failures are logged only.
func (h *Handlers) releaseAll(ctx context.Context, references ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, reference := range references {
		if err := h.assets.Release(ctx, reference); err != nil {
			h.log.WithContext(ctx).With("reference", reference).Warnx(err)
		}
	}
}
