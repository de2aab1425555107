// Package common defines shared constants and sentinel errors used across
// the meetups client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Remote collaborator errors.
	ErrUnavailable  = errors.New("remote service unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// Action-level errors.
	ErrNotAuthenticated = errors.New("no authenticated user")
	ErrInvalidInput     = errors.New("invalid input")
)
