// Package actions is the only place where the meetups client performs I/O.
//
// Each action calls the remote collaborators (see package remote) and, once
// the remote calls have settled, commits mutations to the store. Actions
// register themselves as in-flight operations for the duration of their
// remote calls, so store.Loading reflects every running action.
//
// Failures of authentication actions are committed as the store's auth
// error. All other failures are logged and returned; they never reach the
// snapshot. There is no retry.
//
// CreateMeetup spans three remote calls. Every completed call registers a
// compensation that is run, newest first, when a later call fails, so a
// failed create leaves neither a record nor an image behind.
package actions
