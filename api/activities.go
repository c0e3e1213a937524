package api

import (
	"context"

	"github.com/code19m/errx"
	"github.com/google/uuid"

	"github.com/rise-and-shine/eventhub/entity"
	"github.com/rise-and-shine/eventhub/imagefs"
	"github.com/rise-and-shine/eventhub/imagefs/types"
	"github.com/rise-and-shine/eventhub/pagination"
	"github.com/rise-and-shine/eventhub/sorter"
)

//nolint:gochecknoglobals // read-only default
var defaultActivitySort = sorter.Opt{F: "created_at", D: sorter.Asc}

func (h *Handlers) getActivity(ctx context.Context, in *getInput) (*activityOutput, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	activity, err := h.repos.Activities.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return newActivityOutput(activity, h.inline(ctx, activity.CoverImageURL, in.Variant)), nil
}

// listActivities returns a page of the activities of an event.
// Covers default to the miniature variant.
func (h *Handlers) listActivities(
	ctx context.Context,
	in *listActivitiesInput,
) (*pagination.Response[*activityOutput], error) {
	filter, err := scope(ctx, in.EventID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	exists, err := h.repos.Events.Exists(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if !exists {
		return nil, errx.New("event not found", errx.WithCode(entity.CodeEventNotFound), errx.WithType(errx.T_NotFound))
	}

	page := pagination.Request{PageNumber: in.PageNumber, PageSize: in.PageSize}
	page.Normalize()

	variant := in.Variant
	if variant == "" {
		variant = types.Miniature.String()
	}

	activities, total, err := h.repos.Activities.ListWithCount(ctx, entity.Filter{
		CompanyID: filter.CompanyID,
		EventID:   filter.ID,
		Limit:     page.Limit(),
		Offset:    page.Offset(),
		Sort:      sorter.MakeFromStr(in.Sort, entity.ActivitySortFields...).OrDefault(defaultActivitySort),
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	items := make([]*activityOutput, 0, len(activities))
	for i := range activities {
		items = append(items, newActivityOutput(&activities[i], h.inline(ctx, activities[i].CoverImageURL, variant)))
	}
	resp := pagination.NewResponse(items, total, page)
	return &resp, nil
}

// createActivity adds an activity to an event of the same company.
func (h *Handlers) createActivity(ctx context.Context, in *createActivityInput) (*activityOutput, error) {
	filter, err := scope(ctx, in.EventID)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	staged, err := h.stage(ctx, in.form, fieldCoverImage, prefixActivity)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	exists, err := h.repos.Events.Exists(ctx, filter)
	if err == nil && !exists {
		err = errx.New("event not found", errx.WithCode(entity.CodeEventNotFound), errx.WithType(errx.T_NotFound))
	}
	if err != nil {
		h.assets.Discard(ctx, staged)
		return nil, errx.Wrap(err)
	}

	activity := &entity.Activity{
		CompanyID: *filter.CompanyID,
		EventID:   uuid.MustParse(in.EventID),
		Title:     in.Title,
	}
	_, err = h.assets.Apply(ctx, imagefs.Attempt{
		Staged:  staged,
		Quality: h.assets.CoverQuality(),
	}, func(ctx context.Context, reference string) error {
		activity.CoverImageURL = reference
		created, err := h.repos.Activities.Create(ctx, activity)
		if err != nil {
			return errx.Wrap(err)
		}
		activity = created
		return nil
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return newActivityOutput(activity, h.inline(ctx, activity.CoverImageURL, "")), nil
}

func (h *Handlers) updateActivity(ctx context.Context, in *updateActivityInput) (*activityOutput, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	staged, err := h.stage(ctx, in.form, fieldCoverImage, prefixActivity)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	activity, err := h.repos.Activities.Get(ctx, filter)
	if err != nil {
		h.assets.Discard(ctx, staged)
		return nil, errx.Wrap(err)
	}

	activity.Title = in.Title

	_, err = h.assets.Apply(ctx, imagefs.Attempt{
		Staged:   staged,
		Previous: activity.CoverImageURL,
		Quality:  h.assets.CoverQuality(),
	}, func(ctx context.Context, reference string) error {
		activity.CoverImageURL = reference
		updated, err := h.repos.Activities.Update(ctx, activity)
		if err != nil {
			return errx.Wrap(err)
		}
		activity = updated
		return nil
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return newActivityOutput(activity, h.inline(ctx, activity.CoverImageURL, "")), nil
}

func (h *Handlers) clearActivityCover(ctx context.Context, in *idInput) (*noContent, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	activity, err := h.repos.Activities.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	err = h.assets.Clear(ctx, activity.CoverImageURL, func(ctx context.Context, reference string) error {
		activity.CoverImageURL = reference
		_, err := h.repos.Activities.Update(ctx, activity)
		return errx.Wrap(err)
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return &noContent{}, nil
}

func (h *Handlers) deleteActivity(ctx context.Context, in *idInput) (*noContent, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	activity, err := h.repos.Activities.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if err = h.repos.Activities.Delete(ctx, activity); err != nil {
		return nil, errx.Wrap(err)
	}
	h.releaseAll(ctx, activity.CoverImageURL)

	return &noContent{}, nil
}
