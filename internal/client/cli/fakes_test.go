package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/meetups/internal/client/actions"
	"github.com/dmitrijs2005/meetups/internal/client/store"
	"github.com/dmitrijs2005/meetups/internal/logging"
	"github.com/stretchr/testify/require"
)

type memCollections struct {
	mu      sync.Mutex
	records map[string]json.RawMessage
	next    int
	getErr  error
	loads   int
}

func (m *memCollections) Get(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make(map[string]json.RawMessage, len(m.records))
	for k, v := range m.records {
		out[k] = v
	}
	return out, nil
}

func (m *memCollections) Push(ctx context.Context, collection string, record any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	m.next++
	key := fmt.Sprintf("new%d", m.next)
	m.records[key] = b
	return key, nil
}

func (m *memCollections) Update(ctx context.Context, collection, key string, patch map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var doc map[string]any
	if err := json.Unmarshal(m.records[key], &doc); err != nil {
		return err
	}
	for k, v := range patch {
		doc[k] = v
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.records[key] = b
	return nil
}

func (m *memCollections) Remove(ctx context.Context, collection, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func (m *memCollections) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

type memBlobs struct{}

func (memBlobs) Put(ctx context.Context, path string, data []byte) (string, error) {
	return "https://blobs.example/" + path, nil
}

func (memBlobs) Delete(ctx context.Context, path string) error { return nil }

type memAuth struct {
	uid string
	err error

	mu       sync.Mutex
	lastUser string
	signOuts int
}

func (a *memAuth) CreateAccount(ctx context.Context, email, password string) (string, error) {
	return a.SignIn(ctx, email, password)
}

func (a *memAuth) SignIn(ctx context.Context, email, password string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastUser = email
	if a.err != nil {
		return "", a.err
	}
	return a.uid, nil
}

func (a *memAuth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signOuts++
	return nil
}

type fixture struct {
	app  *App
	out  *bytes.Buffer
	cols *memCollections
	auth *memAuth
	st   *store.Store
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	cols := &memCollections{records: map[string]json.RawMessage{
		"m1": json.RawMessage(`{"title":"Go meetup","location":"Riga","imageUrl":"https://img/1.png","description":"Talks","date":"2026-05-01T18:00:00.000Z","creatorId":"u0"}`),
		"m2": json.RawMessage(`{"title":"Rust night","location":"Tallinn","description":"","date":"2026-04-01T18:00:00.000Z","creatorId":"u0"}`),
	}}
	auth := &memAuth{uid: "uid-1"}
	st := store.New()
	acts := actions.New(st, cols, memBlobs{}, auth, logging.Nop())

	out := &bytes.Buffer{}
	app := NewApp(acts, logging.Nop(), Options{In: strings.NewReader(input), Out: out})
	return &fixture{app: app, out: out, cols: cols, auth: auth, st: st}
}

// stubAnswers makes getSimpleText and getMultiline return answers in order.
func stubAnswers(t *testing.T, answers ...string) {
	t.Helper()
	origST, origML := getSimpleText, getMultiline

	var mu sync.Mutex
	next := func(*bufio.Reader, string, io.Writer) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		require.NotEmpty(t, answers, "unexpected prompt")
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getSimpleText = next
	getMultiline = next
	t.Cleanup(func() {
		getSimpleText = origST
		getMultiline = origML
	})
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) (string, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

func stubReadFile(t *testing.T, data []byte, err error) {
	t.Helper()
	orig := readFile
	readFile = func(string) ([]byte, error) { return data, err }
	t.Cleanup(func() { readFile = orig })
}
