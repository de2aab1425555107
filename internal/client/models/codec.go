package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire form of meetup dates: a UTC instant with
// millisecond precision. Values in this layout sort lexically in
// chronological order.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Remote record field names.
const (
	FieldTitle       = "title"
	FieldLocation    = "location"
	FieldImageURL    = "imageUrl"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldCreatorID   = "creatorId"
)

// MeetupRecord is the remote shape of a meetup. The key is not part of the
// record; it is assigned by the collection store.
type MeetupRecord struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatorID   string `json:"creatorId"`
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate accepts RFC 3339 instants of any precision and bare
// YYYY-MM-DD dates. The result is UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// EncodeMeetup builds the remote record for a new meetup.
func EncodeMeetup(in NewMeetupInput, creatorID string) MeetupRecord {
	return MeetupRecord{
		Title:       in.Title,
		Location:    in.Location,
		Description: in.Description,
		Date:        FormatDate(in.Date),
		CreatorID:   creatorID,
	}
}

// DecodeMeetup maps a remote record stored under key into a Meetup.
func DecodeMeetup(key string, raw json.RawMessage) (Meetup, error) {
	if key == "" {
		return Meetup{}, fmt.Errorf("decode meetup: empty key")
	}
	var rec MeetupRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Meetup{}, fmt.Errorf("decode meetup %s: %w", key, err)
	}
	return rec.ToMeetup(key)
}

// ToMeetup converts the record into a Meetup with the given id.
func (r MeetupRecord) ToMeetup(id string) (Meetup, error) {
	var date time.Time
	if r.Date != "" {
		d, err := ParseDate(r.Date)
		if err != nil {
			return Meetup{}, fmt.Errorf("decode meetup %s: %w", id, err)
		}
		date = d
	}
	return Meetup{
		ID:          id,
		Title:       r.Title,
		Location:    r.Location,
		ImageURL:    r.ImageURL,
		Description: r.Description,
		Date:        date,
		CreatorID:   r.CreatorID,
	}, nil
}

// EncodePatch returns the sparse remote patch for p: only set fields are
// present.
func EncodePatch(p MeetupPatch) map[string]any {
	patch := make(map[string]any, 3)
	if v, ok := p.Title.Get(); ok {
		patch[FieldTitle] = v
	}
	if v, ok := p.Description.Get(); ok {
		patch[FieldDescription] = v
	}
	if v, ok := p.Date.Get(); ok {
		patch[FieldDate] = FormatDate(v)
	}
	return patch
}

// ApplyPatch overwrites the set fields of p on m.
func ApplyPatch(m *Meetup, p MeetupPatch) {
	if v, ok := p.Title.Get(); ok {
		m.Title = v
	}
	if v, ok := p.Description.Get(); ok {
		m.Description = v
	}
	if v, ok := p.Date.Get(); ok {
		m.Date = v.UTC()
	}
}
