package api

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/notewire/notewire/internal/models"
)

// Credentials is the result of a successful login or registration. The user
// reference is normalized so both identifier fields are populated.
type Credentials struct {
	User  models.UserRef `json:"user"`
	Token string         `json:"token"`
}

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 6

// Login authenticates with email and password. Credential rejection maps to
// ErrUnauthorized with the backend's message; it never triggers the forced
// logout hook.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	if !emailRx.MatchString(email) {
		return Credentials{}, ErrInvalidEmail
	}

	body := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &creds, false); err != nil {
		return Credentials{}, fmt.Errorf("login failed: %w", err)
	}
	creds.User = creds.User.Normalized()
	return creds, nil
}

// Register creates an account and returns a live session, like Login.
func (c *Client) Register(ctx context.Context, name, email, password string) (Credentials, error) {
	if !emailRx.MatchString(email) {
		return Credentials{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return Credentials{}, ErrShortPassword
	}

	body := map[string]string{"name": name, "email": email, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &creds, false); err != nil {
		return Credentials{}, fmt.Errorf("registration failed: %w", err)
	}
	creds.User = creds.User.Normalized()
	return creds, nil
}
