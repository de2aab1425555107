package actions

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/meetups/internal/client/models"
	"github.com/dmitrijs2005/meetups/internal/client/store"
	"github.com/dmitrijs2005/meetups/internal/common"
)

// LoadMeetups replaces the loaded meetups with the full remote collection.
// On failure the snapshot is left untouched. Records that cannot be decoded
// are skipped with a warning.
func (a *Actions) LoadMeetups(ctx context.Context) error {
	done := a.begin(store.OpLoad)
	defer done()

	records, err := a.collections.Get(ctx, common.MeetupsCollection)
	if err != nil {
		a.logger.Error(ctx, "load meetups failed", "error", err)
		return fmt.Errorf("load meetups: %w", err)
	}

	meetups := make([]models.Meetup, 0, len(records))
	for _, key := range slices.Sorted(maps.Keys(records)) {
		m, err := models.DecodeMeetup(key, records[key])
		if err != nil {
			a.logger.Warn(ctx, "skipping malformed meetup record", "key", key, "error", err)
			continue
		}
		meetups = append(meetups, m)
	}

	a.store.SetLoadedMeetups(meetups)
	a.logger.Info(ctx, "meetups loaded", "count", len(meetups))
	return nil
}

// CreateMeetup pushes a new meetup record, uploads its image, stores the
// image URL on the record and only then appends the meetup to the store.
// The creator is the current user. When any remote step fails, the
// completed steps are compensated and the store is not touched.
func (a *Actions) CreateMeetup(ctx context.Context, in models.NewMeetupInput) (models.Meetup, error) {
	user := a.store.User()
	if user == nil {
		a.logger.Warn(ctx, "create meetup rejected", "error", common.ErrNotAuthenticated)
		return models.Meetup{}, fmt.Errorf("create meetup: %w", common.ErrNotAuthenticated)
	}
	if len(in.Image.Data) == 0 {
		return models.Meetup{}, fmt.Errorf("create meetup: image is required: %w", common.ErrInvalidInput)
	}

	done := a.begin(store.OpCreate)
	defer done()

	var sg saga
	rec := models.EncodeMeetup(in, user.ID)

	key, err := a.collections.Push(ctx, common.MeetupsCollection, rec)
	if err != nil {
		return models.Meetup{}, a.abortCreate(ctx, &sg, "push record", err)
	}
	sg.add("remove record "+key, func(ctx context.Context) error {
		return a.collections.Remove(ctx, common.MeetupsCollection, key)
	})

	path := common.MeetupImagePrefix + key + in.Image.Ext()
	imageURL, err := a.blobs.Put(ctx, path, in.Image.Data)
	if err != nil {
		return models.Meetup{}, a.abortCreate(ctx, &sg, "upload image", err)
	}
	sg.add("delete image "+path, func(ctx context.Context) error {
		return a.blobs.Delete(ctx, path)
	})

	err = a.collections.Update(ctx, common.MeetupsCollection, key, map[string]any{models.FieldImageURL: imageURL})
	if err != nil {
		return models.Meetup{}, a.abortCreate(ctx, &sg, "set image url", err)
	}

	rec.ImageURL = imageURL
	m, err := rec.ToMeetup(key)
	if err != nil {
		return models.Meetup{}, a.abortCreate(ctx, &sg, "decode record", err)
	}

	a.store.CreateMeetup(m)
	a.logger.Info(ctx, "meetup created", "id", key)
	return m, nil
}

func (a *Actions) abortCreate(ctx context.Context, sg *saga, step string, err error) error {
	a.logger.Error(ctx, "create meetup failed", "step", step, "error", err)
	err = fmt.Errorf("create meetup: %s: %w", step, err)
	if rbErr := sg.rollback(ctx, a.logger); rbErr != nil {
		return errors.Join(err, rbErr)
	}
	return err
}

// UpdateMeetupData sends the set fields of p to the remote record and, on
// success, applies the same fields to the loaded meetup.
func (a *Actions) UpdateMeetupData(ctx context.Context, p models.MeetupPatch) error {
	done := a.begin(store.OpUpdate)

	err := a.collections.Update(ctx, common.MeetupsCollection, p.ID, models.EncodePatch(p))
	done()
	if err != nil {
		a.logger.Error(ctx, "update meetup failed", "id", p.ID, "error", err)
		return fmt.Errorf("update meetup %s: %w", p.ID, err)
	}

	if _, ok := a.store.LoadedMeetup(p.ID); !ok {
		a.logger.Warn(ctx, "updated meetup is not loaded locally", "id", p.ID)
	}
	a.store.UpdateMeetupData(p)
	return nil
}
