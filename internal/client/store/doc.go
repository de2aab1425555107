// Package store holds the in-memory snapshot of the meetups client.
//
// # Overview
//
// Store is the single owner of the snapshot: the loaded meetups, the
// current user, the busy state and the last authentication error. It is
// explicitly constructed (New) and handed to the action layer and the UI.
//
// Mutations (SetLoadedMeetups, CreateMeetup, UpdateMeetupData, SetUser,
// SetLoading, SetAuthError, ClearAuthError, StartOperation,
// FinishOperation) are synchronous, total and never fail. Each one is
// applied under the store's write lock and then published to subscribers
// (see Subscribe).
//
// Views (LoadedMeetups, FeaturedMeetups, LoadedMeetup, User, AuthError,
// Loading) are recomputed on every call and return copies, so callers can
// never reach into the snapshot.
//
// # Busy state
//
// Loading is true while the manual flag set by SetLoading is on or while at
// least one operation registered with StartOperation has not been finished.
// Overlapping actions therefore do not clear each other's busy state.
package store
