package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/meetups/internal/client/models"
	"github.com/dmitrijs2005/meetups/internal/client/remote"
	"github.com/dmitrijs2005/meetups/internal/client/store"
	"github.com/dmitrijs2005/meetups/internal/common"
)

// SignUserUp creates an account and makes it the current user. A failure is
// committed as the auth error.
func (a *Actions) SignUserUp(ctx context.Context, c models.Credentials) error {
	return a.authenticate(ctx, "sign up", c, a.auth.CreateAccount)
}

// SignUserIn signs an existing account in and makes it the current user. A
// failure is committed as the auth error.
func (a *Actions) SignUserIn(ctx context.Context, c models.Credentials) error {
	return a.authenticate(ctx, "sign in", c, a.auth.SignIn)
}

func (a *Actions) authenticate(ctx context.Context, name string, c models.Credentials,
	call func(ctx context.Context, email, password string) (string, error)) error {

	done := a.begin(store.OpAuth)
	a.store.ClearAuthError()

	// A sign out still in flight would otherwise drop the new session.
	a.background.Wait()

	uid, err := call(ctx, c.Email, c.Password)
	done()
	if err != nil {
		a.store.SetAuthError(err)
		a.logger.Warn(ctx, name+" failed", "email_domain", emailDomain(c.Email), "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}

	a.store.SetUser(models.NewUser(uid))
	a.logger.Info(ctx, name+" succeeded", "uid", uid)
	return nil
}

func emailDomain(email string) string {
	i := strings.LastIndexByte(email, '@')
	if i < 0 {
		return ""
	}
	return email[i+1:]
}

// AutoSignIn makes uid the current user without contacting the auth
// provider. Registered meetups start empty.
func (a *Actions) AutoSignIn(in models.AutoSignInInput) error {
	if in.UID == "" {
		return fmt.Errorf("auto sign in: empty uid: %w", common.ErrInvalidInput)
	}
	a.store.SetUser(models.NewUser(in.UID))
	return nil
}

// RestoreSession asks src for a session left by a previous run and signs
// it in. It reports whether a user was restored.
func (a *Actions) RestoreSession(ctx context.Context, src remote.SessionSource) (bool, error) {
	uid, ok, err := src.RestoreSession(ctx)
	if err != nil {
		a.logger.Error(ctx, "session restore failed", "error", err)
		return false, fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := a.AutoSignIn(models.AutoSignInInput{UID: uid}); err != nil {
		return false, err
	}
	a.logger.Info(ctx, "session restored", "uid", uid)
	return true, nil
}

// Logout clears the current user immediately. The remote sign out runs in
// the background; its failure is only logged. Use Wait to let it settle.
func (a *Actions) Logout(ctx context.Context) {
	bg := context.WithoutCancel(ctx)

	a.background.Add(1)
	go func() {
		defer a.background.Done()
		if err := a.auth.SignOut(bg); err != nil {
			a.logger.Error(bg, "sign out failed", "error", err)
		}
	}()

	a.store.SetUser(nil)
}
