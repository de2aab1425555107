// Package common contains shared constants and sentinel errors used across
// the meetups client components.
package common

// MeetupsCollection is the remote collection path holding meetup records.
const MeetupsCollection = "meetups"

// MeetupImagePrefix is the blob storage prefix for meetup images.
const MeetupImagePrefix = "meetups/"

// FeaturedMeetupsLimit caps the featured meetups projection.
const FeaturedMeetupsLimit = 5
