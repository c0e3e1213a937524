package api

import (
	"context"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/eventhub/imagefs"
)

func (h *Handlers) getUser(ctx context.Context, in *getInput) (*userOutput, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	user, err := h.repos.Users.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return newUserOutput(user, h.inline(ctx, user.ProfileImageURL, in.Variant)), nil
}

// updateUser replaces the names and, when a file is uploaded, the profile image.
func (h *Handlers) updateUser(ctx context.Context, in *updateUserInput) (*userOutput, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	staged, err := h.stage(ctx, in.form, fieldProfileImage, prefixUser)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	user, err := h.repos.Users.Get(ctx, filter)
	if err != nil {
		h.assets.Discard(ctx, staged)
		return nil, errx.Wrap(err)
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName

	_, err = h.assets.Apply(ctx, imagefs.Attempt{
		Staged:   staged,
		Previous: user.ProfileImageURL,
		Quality:  h.assets.ProfileQuality(),
	}, func(ctx context.Context, reference string) error {
		user.ProfileImageURL = reference
		updated, err := h.repos.Users.Update(ctx, user)
		if err != nil {
			return errx.Wrap(err)
		}
		user = updated
		return nil
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return newUserOutput(user, h.inline(ctx, user.ProfileImageURL, "")), nil
}

func (h *Handlers) clearProfileImage(ctx context.Context, in *idInput) (*noContent, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	user, err := h.repos.Users.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	err = h.assets.Clear(ctx, user.ProfileImageURL, func(ctx context.Context, reference string) error {
		user.ProfileImageURL = reference
		_, err := h.repos.Users.Update(ctx, user)
		return errx.Wrap(err)
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return &noContent{}, nil
}


func (h *Handlers) deleteUser(ctx context.Context, in *idInput) (*noContent, error) {
	filter, err := scope(ctx, in.ID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	user, err := h.repos.Users.Get(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if err = h.repos.Users.Delete(ctx, user); err != nil {
		return nil, errx.Wrap(err)
	}
	h.releaseAll(ctx, user.ProfileImageURL)

	return &noContent{}, nil
}
