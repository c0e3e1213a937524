package api

import (
	"context"

	"github.com/code19m/errx"
	"github.com/samber/lo"

	"github.com/rise-and-shine/eventhub/entity"
	"github.com/rise-and-shine/eventhub/imagefs"
)

func (h *Handlers) getEvent(ctx context.Context, in *getInput) (*eventOutput, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	event, err := h.repos.Events.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return newEventOutput(event, h.inline(ctx, event.CoverImageURL, in.Variant)), nil
}

// createEvent inserts the event together with its cover image, if one was uploaded.
func (h *Handlers) createEvent(ctx context.Context, in *createEventInput) (*eventOutput, error) {
	company, err := companyID(ctx)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	staged, err := h.stage(ctx, in.form, fieldCoverImage, prefixEvent)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	event := &entity.Event{
		CompanyID:   company,
		Title:       in.Title,
		Description: in.Description,
	}
	_, err = h.assets.Apply(ctx, imagefs.Attempt{
		Staged:  staged,
		Quality: h.assets.CoverQuality(),
	}, func(ctx context.Context, reference string) error {
		event.CoverImageURL = reference
		created, err := h.repos.Events.Create(ctx, event)
		if err != nil {
			return errx.Wrap(err)
		}
		event = created
		return nil
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return newEventOutput(event, h.inline(ctx, event.CoverImageURL, "")), nil
}

func (h *Handlers) updateEvent(ctx context.Context, in *updateEventInput) (*eventOutput, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	staged, err := h.stage(ctx, in.form, fieldCoverImage, prefixEvent)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	event, err := h.repos.Events.Get(ctx, filter)
	if err != nil {
		h.assets.Discard(ctx, staged)
		return nil, errx.Wrap(err)
	}

	event.Title = in.Title
	event.Description = in.Description

	_, err = h.assets.Apply(ctx, imagefs.Attempt{
		Staged:   staged,
		Previous: event.CoverImageURL,
		Quality:  h.assets.CoverQuality(),
	}, func(ctx context.Context, reference string) error {
		event.CoverImageURL = reference
		updated, err := h.repos.Events.Update(ctx, event)
		if err != nil {
			return errx.Wrap(err)
		}
		event = updated
		return nil
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return newEventOutput(event, h.inline(ctx, event.CoverImageURL, "")), nil
}

func (h *Handlers) clearEventCover(ctx context.Context, in *idInput) (*noContent, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	event, err := h.repos.Events.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	err = h.assets.Clear(ctx, event.CoverImageURL, func(ctx context.Context, reference string) error {
		event.CoverImageURL = reference
		_, err := h.repos.Events.Update(ctx, event)
		return errx.Wrap(err)
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return &noContent{}, nil
}

// deleteEvent removes the event and, through the cascade, its activities.
// Their image files are released once the rows are gone.
func (h *Handlers) deleteEvent(ctx context.Context, in *idInput) (*noContent, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	event, err := h.repos.Events.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	activities, err := h.repos.Activities.List(ctx, entity.Filter{CompanyID: &event.CompanyID, EventID: &event.ID})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if err = h.repos.Events.Delete(ctx, event); err != nil {
		return nil, errx.Wrap(err)
	}

	references := lo.Map(activities, func(a entity.Activity, _ int) string { return a.CoverImageURL })
	h.releaseAll(ctx, lo.Compact(append(references, event.CoverImageURL))...)

	return &noContent{}, nil
}
