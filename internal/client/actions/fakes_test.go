package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type fakeCollections struct {
	mu sync.Mutex

	records map[string]map[string]json.RawMessage
	nextKey int

	GetErr    error
	PushErr   error
	UpdateErr error
	RemoveErr error

	updates []fakeUpdate
	removed []string
}

type fakeUpdate struct {
	Key   string
	Patch map[string]any
}

func newFakeCollections() *fakeCollections {
	return &fakeCollections{records: map[string]map[string]json.RawMessage{}}
}

func (f *fakeCollections) seed(collection, key, body string) {
	if f.records[collection] == nil {
		f.records[collection] = map[string]json.RawMessage{}
	}
	f.records[collection][key] = json.RawMessage(body)
}

func (f *fakeCollections) Get(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	out := map[string]json.RawMessage{}
	for k, v := range f.records[collection] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeCollections) Push(ctx context.Context, collection string, record any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PushErr != nil {
		return "", f.PushErr
	}
	b, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	f.nextKey++
	key := fmt.Sprintf("-K%03d", f.nextKey)
	if f.records[collection] == nil {
		f.records[collection] = map[string]json.RawMessage{}
	}
	f.records[collection][key] = b
	return key, nil
}

func (f *fakeCollections) Update(ctx context.Context, collection, key string, patch map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, fakeUpdate{Key: key, Patch: patch})
	return f.UpdateErr
}

func (f *fakeCollections) Remove(ctx context.Context, collection, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	f.removed = append(f.removed, key)
	delete(f.records[collection], key)
	return nil
}

func (f *fakeCollections) has(collection, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[collection][key]
	return ok
}

type fakeBlobs struct {
	PutErr    error
	DeleteErr error

	puts    map[string][]byte
	deleted []string
}

func (f *fakeBlobs) Put(ctx context.Context, path string, data []byte) (string, error) {
	if f.PutErr != nil {
		return "", f.PutErr
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[path] = data
	return "https://blobs.example/" + path, nil
}

func (f *fakeBlobs) Delete(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return f.DeleteErr
}

type fakeAuth struct {
	UID        string
	CreateErr  error
	SignInErr  error
	SignOutErr error

	signedOut chan struct{}
	// holdSignOut, when set, blocks SignOut until it is closed.
	holdSignOut chan struct{}
	lastEmail   string

	mu    sync.Mutex
	calls []string
}

func (f *fakeAuth) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAuth) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAuth) CreateAccount(ctx context.Context, email, password string) (string, error) {
	f.lastEmail = email
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	return f.UID, nil
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (string, error) {
	f.record("sign in")
	f.lastEmail = email
	if f.SignInErr != nil {
		return "", f.SignInErr
	}
	return f.UID, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	if f.holdSignOut != nil {
		<-f.holdSignOut
	}
	f.record("sign out")
	if f.signedOut != nil {
		close(f.signedOut)
	}
	return f.SignOutErr
}

type fakeSession struct {
	UID string
	OK  bool
	Err error
}

func (f fakeSession) RestoreSession(ctx context.Context) (string, bool, error) {
	return f.UID, f.OK, f.Err
}
