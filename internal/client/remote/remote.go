// Package remote declares the contract of the backend services the meetups
// client talks to: a collection store, a blob store and an auth provider.
//
// The subpackages provide concrete adapters:
//
//   - rtdb:     CollectionStore over a realtime-database REST API
//   - pgstore:  CollectionStore over a shared PostgreSQL database
//   - s3blob:   BlobStore over S3-compatible object storage
//   - identity: AuthProvider and SessionSource over an identity-toolkit REST API
//
// All operations accept context.Context and must honor cancellation.
package remote

import (
	"context"
	"encoding/json"
)

// CollectionStore is a keyed store of JSON records grouped by collection path.
type CollectionStore interface {
	// Get returns every record of the collection keyed by record key. A
	// missing collection yields an empty map.
	Get(ctx context.Context, collection string) (map[string]json.RawMessage, error)

	// Push stores record under a newly generated key and returns the key.
	Push(ctx context.Context, collection string, record any) (string, error)

	// Update merges patch into the record stored under key.
	Update(ctx context.Context, collection, key string, patch map[string]any) error

	// Remove deletes the record stored under key. Removing a missing key is
	// not an error.
	Remove(ctx context.Context, collection, key string) error
}

// BlobStore stores binary objects and hands out URLs to read them.
type BlobStore interface {
	// Put stores data under path and returns a URL it can be downloaded from.
	Put(ctx context.Context, path string, data []byte) (downloadURL string, err error)

	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error
}

// AuthProvider creates accounts and signs users in and out.
type AuthProvider interface {
	CreateAccount(ctx context.Context, email, password string) (uid string, err error)
	SignIn(ctx context.Context, email, password string) (uid string, err error)
	SignOut(ctx context.Context) error
}

// SessionSource reports an already valid session left by a previous run.
// ok is false when there is nothing to restore.
type SessionSource interface {
	RestoreSession(ctx context.Context) (uid string, ok bool, err error)
}
