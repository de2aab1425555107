package actions

import (
	"sync"

	"github.com/dmitrijs2005/meetups/internal/client/remote"
	"github.com/dmitrijs2005/meetups/internal/client/store"
	"github.com/dmitrijs2005/meetups/internal/logging"
	"github.com/google/uuid"
)

// Actions orchestrates remote calls and commits their results to a store.
// It is safe for concurrent use.
type Actions struct {
	store       *store.Store
	collections remote.CollectionStore
	blobs       remote.BlobStore
	auth        remote.AuthProvider
	logger      logging.Logger

	background sync.WaitGroup
}

// New binds the action layer to a store and its remote collaborators.
func New(st *store.Store, collections remote.CollectionStore, blobs remote.BlobStore,
	auth remote.AuthProvider, logger logging.Logger) *Actions {
	return &Actions{
		store:       st,
		collections: collections,
		blobs:       blobs,
		auth:        auth,
		logger:      logger.With("component", "actions"),
	}
}

// Store returns the store the actions commit to.
func (a *Actions) Store() *store.Store {
	return a.store
}

// Wait blocks until fire-and-forget remote calls (sign out) have settled.
func (a *Actions) Wait() {
	a.background.Wait()
}

// begin registers an in-flight operation and returns the func finishing it.
// The returned func is safe to call more than once.
func (a *Actions) begin(kind store.OperationKind) (finish func()) {
	op := store.Operation{ID: uuid.NewString(), Kind: kind}
	a.store.StartOperation(op)

	var once sync.Once
	return func() {
		once.Do(func() { a.store.FinishOperation(op.ID) })
	}
}

// ClearAuthError dismisses the last authentication error.
func (a *Actions) ClearAuthError() {
	a.store.ClearAuthError()
}
