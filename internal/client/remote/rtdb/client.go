// Package rtdb implements remote.CollectionStore over the REST API of a
// realtime JSON database: every collection is a JSON object addressed as
// <base>/<collection>.json and every record as <base>/<collection>/<key>.json.
//
// Requests carry the caller's identity token as the auth query parameter
// when a TokenSource is configured.
package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/meetups/internal/common"
)

// TokenSource supplies the identity token attached to requests. An empty
// token means the request is sent unauthenticated.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rtdb: unexpected status %d: %s", e.Code, e.Body)
}

// Unwrap maps the status onto the shared sentinel errors.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return common.ErrUnauthorized
	case e.Code == http.StatusNotFound:
		return common.ErrorNotFound
	case e.Code >= 500:
		return common.ErrUnavailable
	}
	return nil
}

// Client talks to one database instance.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

type Option func(*Client)

// WithHTTPClient replaces the default client. A nil h is ignored.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New returns a client for the database at baseURL
// (e.g. "https://example-default-rtdb.firebaseio.com").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, []string{collection}, nil, &raw); err != nil {
		return nil, err
	}

	records := map[string]json.RawMessage{}
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("rtdb: decode collection %s: %w", collection, err)
	}
	return records, nil
}

func (c *Client) Push(ctx context.Context, collection string, record any) (string, error) {
	var resp struct {
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodPost, []string{collection}, record, &resp); err != nil {
		return "", err
	}
	if resp.Name == "" {
		return "", errors.New("rtdb: push response carries no key")
	}
	return resp.Name, nil
}

func (c *Client) Update(ctx context.Context, collection, key string, patch map[string]any) error {
	if key == "" {
		return fmt.Errorf("rtdb: update: empty key: %w", common.ErrInvalidInput)
	}
	return c.do(ctx, http.MethodPatch, []string{collection, key}, patch, nil)
}

func (c *Client) Remove(ctx context.Context, collection, key string) error {
	if key == "" {
		return fmt.Errorf("rtdb: remove: empty key: %w", common.ErrInvalidInput)
	}
	return c.do(ctx, http.MethodDelete, []string{collection, key}, nil, nil)
}

func (c *Client) endpoint(ctx context.Context, segments []string) (string, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.baseURL + "/" + strings.Join(escaped, "/") + ".json"

	if c.tokens == nil {
		return u, nil
	}
	token, err := c.tokens.IDToken(ctx)
	if err != nil {
		return "", fmt.Errorf("rtdb: identity token: %w", err)
	}
	if token != "" {
		u += "?" + url.Values{"auth": {token}}.Encode()
	}
	return u, nil
}

func (c *Client) do(ctx context.Context, method string, segments []string, body any, out any) error {
	u, err := c.endpoint(ctx, segments)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rtdb: encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rtdb: %s %s: %w: %w", method, strings.Join(segments, "/"), common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("rtdb: decode response: %w", err)
	}
	return nil
}
