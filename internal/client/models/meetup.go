// Package models defines the client-side domain values held by the store:
// meetups, users, action inputs and the canonical remote record codec.
package models

import (
	"path/filepath"
	"slices"
	"time"
)

// Meetup is one meetup as held in the local snapshot.
type Meetup struct {
	// ID is the remote-generated key. Never empty for a stored meetup.
	ID          string
	Title       string
	Location    string
	ImageURL    string
	Description string
	// Date is always UTC.
	Date      time.Time
	CreatorID string
}

// User is the authenticated user of the current session.
type User struct {
	ID                string
	RegisteredMeetups []string
}

// NewUser returns a user with an empty (non-nil) registered meetups set.
func NewUser(id string) *User {
	return &User{ID: id, RegisteredMeetups: []string{}}
}

// Clone returns a deep copy of u. A nil user clones to nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.RegisteredMeetups = slices.Clone(u.RegisteredMeetups)
	if c.RegisteredMeetups == nil {
		c.RegisteredMeetups = []string{}
	}
	return &c
}

// MeetupPatch is a sparse update of a meetup. Only set fields are applied,
// both remotely and locally.
type MeetupPatch struct {
	ID          string
	Title       Optional[string]
	Description Optional[string]
	Date        Optional[time.Time]
}

// Empty reports whether the patch carries no field at all.
func (p MeetupPatch) Empty() bool {
	return !p.Title.IsSet() && !p.Description.IsSet() && !p.Date.IsSet()
}

// Image is a file selected for upload.
type Image struct {
	Name string
	Data []byte
}

// Ext returns the file extension including the leading dot, or "" when the
// name has none.
func (i Image) Ext() string {
	return filepath.Ext(i.Name)
}

// NewMeetupInput is the payload of the create meetup action.
type NewMeetupInput struct {
	Title       string
	Location    string
	Description string
	Date        time.Time
	Image       Image
}

// Credentials are handed to the auth provider verbatim.
type Credentials struct {
	Email    string
	Password string
}

// AutoSignInInput carries the uid delivered by a session restore.
type AutoSignInInput struct {
	UID string
}
