package cli

import (
	"context"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a name, email and password and creates an account.
// A successful registration logs the user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.sessions.Register(ctx, name, email, password); err != nil {
		return err
	}
	a.printf("Welcome, %s!\n", a.sessions.Current().User.Name)
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.sessions.Login(ctx, email, password); err != nil {
		return err
	}
	a.printf("Logged in as %s\n", a.sessions.Current().User.Name)
	a.page = 1
	return nil
}

// Logout ends the session and forgets the saved credentials.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout()
	a.page = 1
	a.showArchived = false
	a.printf("Logged out\n")
	return nil
}
