package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/meetups/internal/client/models"
)

// inputDateLayout is accepted in addition to RFC 3339 and YYYY-MM-DD; it is
// read in the local time zone.
const inputDateLayout = "2006-01-02 15:04"

func parseInputDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(inputDateLayout, strings.TrimSpace(s), time.Local); err == nil {
		return t.UTC(), nil
	}
	return models.ParseDate(s)
}

// Load reloads every meetup from the collection store.
func (a *App) Load(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.actions.LoadMeetups(ctx); err != nil {
		a.printf("Loading meetups failed: %v\n", err)
		return err
	}
	a.printf("%d meetup(s) loaded\n", len(a.store.LoadedMeetups()))
	return nil
}

// List prints every loaded meetup in date order.
func (a *App) List(ctx context.Context) error {
	a.printMeetups(a.store.LoadedMeetups())
	return nil
}

// Featured prints the first meetups by date.
func (a *App) Featured(ctx context.Context) error {
	a.printMeetups(a.store.FeaturedMeetups())
	return nil
}

func (a *App) printMeetups(ms []models.Meetup) {
	if len(ms) == 0 {
		a.printf("No meetups\n")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tLOCATION")
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Date.Local().Format(inputDateLayout), m.Title, m.Location)
	}
	_ = tw.Flush()
}

// Show prints the details of one loaded meetup.
func (a *App) Show(ctx context.Context, id string) error {
	m, ok := a.store.LoadedMeetup(id)
	if !ok {
		a.printf("Meetup %s not found\n", id)
		return fmt.Errorf("meetup %s not found", id)
	}

	a.printf("%s\n", m.Title)
	a.printf("  id:          %s\n", m.ID)
	a.printf("  date:        %s\n", m.Date.Local().Format(inputDateLayout))
	a.printf("  location:    %s\n", m.Location)
	a.printf("  image:       %s\n", m.ImageURL)
	a.printf("  created by:  %s\n", m.CreatorID)
	if m.Description != "" {
		a.printf("\n%s\n", m.Description)
	}
	return nil
}

// Create prompts for the meetup fields and an image file and creates the
// meetup.
func (a *App) Create(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Login first\n")
		return errors.New("not signed in")
	}

	in, err := a.readNewMeetup()
	if err != nil {
		a.printf("%v\n", err)
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	m, err := a.actions.CreateMeetup(ctx, in)
	if err != nil {
		a.printf("Creating meetup failed: %v\n", err)
		return err
	}
	a.printf("Meetup %s created\n", m.ID)
	return nil
}

func (a *App) readNewMeetup() (models.NewMeetupInput, error) {
	var in models.NewMeetupInput
	var err error

	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return in, err
	}
	if in.Location, err = getSimpleText(a.reader, "Location", a.out); err != nil {
		return in, err
	}
	if in.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return in, err
	}

	date, err := getSimpleText(a.reader, "Date (YYYY-MM-DD HH:MM)", a.out)
	if err != nil {
		return in, err
	}
	if in.Date, err = parseInputDate(date); err != nil {
		return in, fmt.Errorf("bad date: %w", err)
	}

	path, err := getSimpleText(a.reader, "Image file", a.out)
	if err != nil {
		return in, err
	}
	data, err := readFile(path)
	if err != nil {
		return in, fmt.Errorf("read image: %w", err)
	}
	in.Image = models.Image{Name: filepath.Base(path), Data: data}

	if in.Title == "" {
		return in, errors.New("title is required")
	}
	return in, nil
}

// Update prompts for new title, description and date of a loaded meetup.
// Empty answers keep the current value.
func (a *App) Update(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		a.printf("Login first\n")
		return errors.New("not signed in")
	}
	m, ok := a.store.LoadedMeetup(id)
	if !ok {
		a.printf("Meetup %s not found\n", id)
		return fmt.Errorf("meetup %s not found", id)
	}

	patch := models.MeetupPatch{ID: id}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", m.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = models.Some(title)
	}

	desc, err := getMultiline(a.reader, "Description (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		patch.Description = models.Some(desc)
	}

	date, err := getSimpleText(a.reader, fmt.Sprintf("Date [%s]", m.Date.Local().Format(inputDateLayout)), a.out)
	if err != nil {
		return err
	}
	if date != "" {
		d, err := parseInputDate(date)
		if err != nil {
			a.printf("Bad date: %v\n", err)
			return err
		}
		patch.Date = models.Some(d)
	}

	if patch.Empty() {
		a.printf("Nothing to update\n")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.actions.UpdateMeetupData(ctx, patch); err != nil {
		a.printf("Updating meetup failed: %v\n", err)
		return err
	}
	a.printf("Meetup %s updated\n", id)
	return nil
}

// Status prints the user, the loading flag with in-flight operations and the
// last auth error.
func (a *App) Status(ctx context.Context) error {
	if u := a.store.User(); u != nil {
		a.printf("user:      %s\n", u.ID)
	} else {
		a.printf("user:      (none)\n")
	}
	a.printf("meetups:   %d\n", len(a.store.LoadedMeetups()))
	a.printf("loading:   %t\n", a.store.Loading())
	for _, op := range a.store.InFlight() {
		a.printf("  - %s %s\n", op.Kind, op.ID)
	}
	if err := a.store.AuthError(); err != nil {
		a.printf("autherror: %v\n", err)
	}
	return nil
}

// ClearError forgets the last auth error.
func (a *App) ClearError(ctx context.Context) error {
	a.actions.ClearAuthError()
	a.printf("Auth error cleared\n")
	return nil
}
