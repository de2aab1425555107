// Package identity implements remote.AuthProvider and remote.SessionSource
// over an identity-toolkit style REST API (accounts:signUp,
// accounts:signInWithPassword and the secure token refresh endpoint).
//
// Every successful sign in is persisted through a SessionStore so that the
// next run can restore the user and keep attaching a valid identity token
// to collection store requests.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/meetups/internal/client/session"
	"github.com/dmitrijs2005/meetups/internal/common"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL  = "https://identitytoolkit.googleapis.com"
	DefaultTokenURL = "https://securetoken.googleapis.com"
)

// SessionStore persists the current session.
type SessionStore interface {
	Save(ctx context.Context, s session.Session) error
	Load(ctx context.Context) (session.Session, bool, error)
	Clear(ctx context.Context) error
}

// Provider signs users in against one project (identified by apiKey).
type Provider struct {
	baseURL  string
	tokenURL string
	apiKey   string
	http     *http.Client
	sessions SessionStore
	now      func() time.Time

	refreshes singleflight.Group

	// mu also serializes session store writes so that a sign out cannot
	// interleave with a refresh persisting its result.
	mu      sync.Mutex
	current *session.Session
	// epoch is bumped whenever the session is dropped. Results of calls
	// started under an older epoch are discarded.
	epoch uint64
}

type Option func(*Provider)

// WithHTTPClient replaces the default client. A nil h is ignored.
func WithHTTPClient(h *http.Client) Option {
	return func(p *Provider) {
		if h != nil {
			p.http = h
		}
	}
}

// WithTokenURL overrides the base URL of the token refresh endpoint. An
// empty u keeps the default.
func WithTokenURL(u string) Option {
	return func(p *Provider) {
		if u != "" {
			p.tokenURL = strings.TrimRight(u, "/")
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func New(baseURL, apiKey string, sessions SessionStore, opts ...Option) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &Provider{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenURL: DefaultTokenURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
		sessions: sessions,
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID      string `json:"localId"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

// CreateAccount registers email/password and signs the new user in.
func (p *Provider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	return p.passwordCall(ctx, "accounts:signUp", email, password)
}

// SignIn signs an existing user in.
func (p *Provider) SignIn(ctx context.Context, email, password string) (string, error) {
	return p.passwordCall(ctx, "accounts:signInWithPassword", email, password)
}

func (p *Provider) passwordCall(ctx context.Context, method, email, password string) (string, error) {
	body, err := json.Marshal(passwordRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", fmt.Errorf("identity: encode request: %w", err)
	}

	epoch := p.currentEpoch()
	u := p.baseURL + "/v1/" + method + "?" + url.Values{"key": {p.apiKey}}.Encode()
	var resp accountResponse
	if err := p.post(ctx, u, "application/json", bytes.NewReader(body), &resp); err != nil {
		return "", err
	}

	sess, err := p.newSession(resp.LocalID, resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
	if err != nil {
		return "", err
	}
	if err := p.remember(ctx, sess, epoch); err != nil {
		return "", err
	}
	return sess.UID, nil
}

// SignOut forgets the current session locally. The API keeps no server
// side session for password sign in, so there is nothing to revoke.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = nil
	p.epoch++
	if err := p.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("identity: clear session: %w", err)
	}
	return nil
}

// RestoreSession reports the user of a persisted session. An expired
// session is refreshed when it carries a refresh token; a session the
// provider rejects is discarded and reported as nothing to restore.
func (p *Provider) RestoreSession(ctx context.Context) (string, bool, error) {
	epoch := p.currentEpoch()

	sess, ok, err := p.sessions.Load(ctx)
	if err != nil {
		return "", false, fmt.Errorf("identity: load session: %w", err)
	}
	if !ok {
		return "", false, nil
	}

	if sess.Expired(p.now()) {
		sess, err = p.refresh(ctx, sess, epoch)
		if err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				p.discard(ctx, epoch)
				return "", false, nil
			}
			return "", false, err
		}
		return sess.UID, true, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		return "", false, nil
	}
	p.current = &sess
	return sess.UID, true, nil
}

// IDToken returns a valid identity token for the signed-in user, refreshing
// it when needed, or "" when nobody is signed in. A session whose refresh
// is rejected is dropped, so later calls report nobody signed in.
func (p *Provider) IDToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	cur, epoch := p.current, p.epoch
	p.mu.Unlock()

	if cur == nil {
		return "", nil
	}
	if !cur.Expired(p.now()) {
		return cur.IDToken, nil
	}

	sess, err := p.refresh(ctx, *cur, epoch)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			p.discard(ctx, epoch)
		}
		return "", err
	}
	return sess.IDToken, nil
}

func (p *Provider) currentEpoch() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epoch
}

// discard drops the session unless it was already replaced or dropped
// after epoch.
func (p *Provider) discard(ctx context.Context, epoch uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		return
	}
	p.current = nil
	p.epoch++
	_ = p.sessions.Clear(ctx)
}

// refresh exchanges the refresh token of old for a new session. Concurrent
// refreshes of the same token share one request.
func (p *Provider) refresh(ctx context.Context, old session.Session, epoch uint64) (session.Session, error) {
	if old.RefreshToken == "" {
		return session.Session{}, fmt.Errorf("identity: session expired: %w", common.ErrUnauthorized)
	}

	v, err, _ := p.refreshes.Do(strconv.FormatUint(epoch, 10)+"/"+old.RefreshToken, func() (any, error) {
		return p.exchange(ctx, old, epoch)
	})
	if err != nil {
		return session.Session{}, err
	}
	return v.(session.Session), nil
}

func (p *Provider) exchange(ctx context.Context, old session.Session, epoch uint64) (session.Session, error) {
	form := url.Values{"grant_type": {"refresh_token"}, "refresh_token": {old.RefreshToken}}
	u := p.tokenURL + "/v1/token?" + url.Values{"key": {p.apiKey}}.Encode()

	var resp refreshResponse
	if err := p.post(ctx, u, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp); err != nil {
		return session.Session{}, err
	}
	if resp.RefreshToken == "" {
		resp.RefreshToken = old.RefreshToken
	}

	uid := resp.UserID
	if uid == "" {
		uid = old.UID
	}
	sess, err := p.newSession(uid, resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
	if err != nil {
		return session.Session{}, err
	}
	if err := p.remember(ctx, sess, epoch); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// newSession prefers the exp claim of the token and falls back to the
// expiresIn seconds of the response.
func (p *Provider) newSession(uid, idToken, refreshToken, expiresIn string) (session.Session, error) {
	sess := session.Session{UID: uid, IDToken: idToken, RefreshToken: refreshToken}

	if sub, exp, err := session.ParseIDToken(idToken); err == nil {
		if sess.UID == "" {
			sess.UID = sub
		}
		sess.ExpiresAt = exp
	}
	if sess.ExpiresAt.IsZero() && expiresIn != "" {
		secs, err := strconv.Atoi(expiresIn)
		if err != nil {
			return session.Session{}, fmt.Errorf("identity: bad expiresIn %q: %w", expiresIn, err)
		}
		sess.ExpiresAt = p.now().Add(time.Duration(secs) * time.Second).UTC()
	}

	if sess.UID == "" {
		return session.Session{}, errors.New("identity: response carries no user id")
	}
	return sess, nil
}

// remember persists sess and makes it current, provided the session was not
// dropped since epoch was read.
func (p *Provider) remember(ctx context.Context, sess session.Session, epoch uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.epoch != epoch {
		return fmt.Errorf("identity: signed out during the request: %w", common.ErrUnauthorized)
	}
	if err := p.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("identity: save session: %w", err)
	}
	p.current = &sess
	return nil
}

func (p *Provider) post(ctx context.Context, u, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity: %w: %w", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("identity: decode response: %w", err)
	}
	return nil
}
