package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/meetups/internal/client/models"
)

// Prompt helpers are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

func (a *App) readCredentials() (models.Credentials, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Email: email, Password: password}, nil
}

// Register prompts for an email and password and creates an account. The
// new account becomes the current user.
func (a *App) Register(ctx context.Context) error {
	return a.authenticate(ctx, "Registration", a.actions.SignUserUp)
}

// Login prompts for credentials and signs the user in.
func (a *App) Login(ctx context.Context) error {
	return a.authenticate(ctx, "Login", a.actions.SignUserIn)
}

func (a *App) authenticate(ctx context.Context, what string,
	call func(ctx context.Context, c models.Credentials) error) error {

	if a.isLoggedIn() {
		a.printf("Already signed in, logout first\n")
		return errors.New("already signed in")
	}

	creds, err := a.readCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := call(ctx, creds); err != nil {
		a.printf("%s failed: %v\n", what, a.store.AuthError())
		return err
	}

	a.printf("%s successful, signed in as %s\n", what, a.store.User().ID)
	return nil
}

// Logout clears the current user; the remote sign out finishes in the
// background.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Not signed in\n")
		return nil
	}
	a.actions.Logout(ctx)
	a.printf("Signed out\n")
	return nil
}
