package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/meetups/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, f *fixture) {
	t.Helper()
	require.NoError(t, f.app.Load(context.Background()))
	f.out.Reset()
}

func TestLoad_Failure(t *testing.T) {
	f := newFixture(t, "")
	f.cols.getErr = errors.New("offline")

	require.Error(t, f.app.Load(context.Background()))
	assert.Contains(t, f.out.String(), "Loading meetups failed")
}

func TestList_SortedByDate(t *testing.T) {
	f := newFixture(t, "")
	loaded(t, f)

	require.NoError(t, f.app.List(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "ID")
	assert.Less(t, strings.Index(out, "Rust night"), strings.Index(out, "Go meetup"))
}

func TestList_Empty(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.app.Featured(context.Background()))
	assert.Contains(t, f.out.String(), "No meetups")
}

func TestShow(t *testing.T) {
	f := newFixture(t, "")
	loaded(t, f)

	require.NoError(t, f.app.Show(context.Background(), "m1"))
	out := f.out.String()
	assert.Contains(t, out, "Go meetup")
	assert.Contains(t, out, "https://img/1.png")
	assert.Contains(t, out, "Talks")

	require.Error(t, f.app.Show(context.Background(), "nope"))
	assert.Contains(t, f.out.String(), "Meetup nope not found")
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t, "")
	f.st.SetUser(models.NewUser("uid-1"))
	stubAnswers(t, "Gophers", "Vilnius", "Lightning talks", "2026-06-01", "/tmp/cover.png")
	stubReadFile(t, []byte("png"), nil)

	require.NoError(t, f.app.Create(context.Background()))
	assert.Contains(t, f.out.String(), "Meetup new1 created")

	m, ok := f.st.LoadedMeetup("new1")
	require.True(t, ok)
	assert.Equal(t, "Gophers", m.Title)
	assert.Equal(t, "https://blobs.example/meetups/new1.png", m.ImageURL)
	assert.Equal(t, "uid-1", m.CreatorID)
	assert.True(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).Equal(m.Date))
}

func TestCreate_RequiresLogin(t *testing.T) {
	f := newFixture(t, "")
	require.Error(t, f.app.Create(context.Background()))
	assert.Contains(t, f.out.String(), "Login first")
}

func TestCreate_BadInput(t *testing.T) {
	f := newFixture(t, "")
	f.st.SetUser(models.NewUser("uid-1"))

	stubAnswers(t, "T", "L", "D", "someday")
	require.ErrorContains(t, f.app.Create(context.Background()), "bad date")

	stubAnswers(t, "T", "L", "D", "2026-06-01", "/missing.png")
	stubReadFile(t, nil, errors.New("no such file"))
	require.ErrorContains(t, f.app.Create(context.Background()), "read image")

	assert.Empty(t, f.st.LoadedMeetups())
}

func TestUpdate_AppliesOnlyAnsweredFields(t *testing.T) {
	f := newFixture(t, "")
	loaded(t, f)
	f.st.SetUser(models.NewUser("uid-1"))
	stubAnswers(t, "Go meetup #2", "", "")

	require.NoError(t, f.app.Update(context.Background(), "m1"))
	assert.Contains(t, f.out.String(), "Meetup m1 updated")

	m, ok := f.st.LoadedMeetup("m1")
	require.True(t, ok)
	assert.Equal(t, "Go meetup #2", m.Title)
	assert.Equal(t, "Talks", m.Description)
}

func TestUpdate_NothingToUpdate(t *testing.T) {
	f := newFixture(t, "")
	loaded(t, f)
	f.st.SetUser(models.NewUser("uid-1"))
	stubAnswers(t, "", "", "")

	require.NoError(t, f.app.Update(context.Background(), "m1"))
	assert.Contains(t, f.out.String(), "Nothing to update")
}

func TestUpdate_UnknownMeetup(t *testing.T) {
	f := newFixture(t, "")
	f.st.SetUser(models.NewUser("uid-1"))

	require.Error(t, f.app.Update(context.Background(), "zzz"))
	assert.Contains(t, f.out.String(), "Meetup zzz not found")
}

func TestStatus(t *testing.T) {
	f := newFixture(t, "")
	f.st.SetUser(models.NewUser("uid-1"))
	f.st.SetAuthError(errors.New("EMAIL_EXISTS"))

	require.NoError(t, f.app.Status(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "user:      uid-1")
	assert.Contains(t, out, "loading:   false")
	assert.Contains(t, out, "autherror: EMAIL_EXISTS")
}

func TestParseInputDate(t *testing.T) {
	d, err := parseInputDate("2026-06-01T10:00:00Z")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC).Equal(d))

	d, err = parseInputDate("2026-06-01 10:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.Local).Equal(d))
	assert.Equal(t, time.UTC, d.Location())

	_, err = parseInputDate("tomorrow")
	require.Error(t, err)
}
