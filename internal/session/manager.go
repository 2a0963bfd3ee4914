// Package session tracks the client's authentication lifecycle: logging
// in and out, persisting credentials between runs, and keeping the API
// client and the realtime channel in step with the current user.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notewire/notewire/internal/api"
	"github.com/notewire/notewire/internal/logging"
	"github.com/notewire/notewire/internal/models"
	"github.com/notewire/notewire/internal/store"
)

// Authenticator is the slice of the API client the manager drives.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.Credentials, error)
	Register(ctx context.Context, name, email, password string) (api.Credentials, error)
	SetToken(token string)
}

// Channel is the realtime connection the manager opens on login and
// tears down on logout. A fresh one is built per session.
type Channel interface {
	Connect(ctx context.Context, token string) error
	JoinNote(id models.ID)
	LeaveNote(id models.ID)
	SendUpdate(noteID models.ID, content, title string)
	Close()
}

// Manager owns the session state machine. All methods are safe for
// concurrent use; ForceLogout in particular is called from the API
// client's unauthorized hook on a request goroutine.
type Manager struct {
	auth       Authenticator
	newChannel func() Channel
	storage    *Storage
	notes      *store.Store
	feed       *store.Feed
	log        logging.Logger

	mu      sync.Mutex
	session models.Session
	channel Channel
}

func NewManager(auth Authenticator, newChannel func() Channel, storage *Storage, notes *store.Store, feed *store.Feed, log logging.Logger) *Manager {
	return &Manager{
		auth:       auth,
		newChannel: newChannel,
		storage:    storage,
		notes:      notes,
		feed:       feed,
		log:        log,
	}
}

// Current returns a copy of the active session.
func (m *Manager) Current() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Authenticated reports whether a user is logged in.
func (m *Manager) Authenticated() bool {
	return m.Current().Authenticated()
}

// Channel returns the realtime channel for the active session, or nil
// when logged out.
func (m *Manager) Channel() Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channel
}

// Login authenticates against the server and establishes a session.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	creds, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	m.establish(ctx, creds)
	return nil
}

// Register creates an account and establishes a session.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	creds, err := m.auth.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	m.establish(ctx, creds)
	return nil
}

// Rehydrate restores a previous session from disk. Expired or unreadable
// tokens are discarded. It reports whether a session was restored.
func (m *Manager) Rehydrate(ctx context.Context) bool {
	token, user, err := m.storage.Load()
	if err != nil {
		if err != ErrNoSavedSession {
			m.log.Warn(ctx, "discarding saved session", "error", err)
			_ = m.storage.Clear()
		}
		return false
	}
	if tokenExpired(token) {
		m.log.Info(ctx, "saved session expired")
		_ = m.storage.Clear()
		return false
	}
	m.establish(ctx, api.Credentials{User: user, Token: token})
	return true
}

// Logout ends the session and forgets the saved credentials.
func (m *Manager) Logout() {
	m.teardown()
	if err := m.storage.Clear(); err != nil {
		m.log.Warn(context.Background(), "clearing saved session", "error", err)
	}
}

// ForceLogout is Logout plus a user-visible notice. The API client calls
// it when the server answers 401 to an authenticated request.
func (m *Manager) ForceLogout(reason string) {
	if !m.Authenticated() {
		return
	}
	m.Logout()
	if reason != "" {
		m.feed.Push(reason)
	}
}

func (m *Manager) establish(ctx context.Context, creds api.Credentials) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Logging in over a live session must not leak it: the old channel is
	// closed and the stores are cleared before the new user moves in.
	m.teardownLocked()

	m.auth.SetToken(creds.Token)
	m.session = models.Session{User: creds.User, Token: creds.Token}

	if err := m.storage.Save(creds.Token, creds.User); err != nil {
		m.log.Warn(ctx, "persisting session", "error", err)
	}

	// A dead push channel does not block login; edits fall back to the
	// save path and the channel reports the outage through the feed.
	ch := m.newChannel()
	if err := ch.Connect(ctx, creds.Token); err != nil {
		m.log.Warn(ctx, "realtime connect failed", "error", err)
	}
	m.channel = ch
}

func (m *Manager) teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func (m *Manager) teardownLocked() {
	if m.channel != nil {
		m.channel.Close()
		m.channel = nil
	}
	m.auth.SetToken("")
	m.session = models.Session{}
	m.notes.Clear()
	m.feed.Clear()
}

// tokenExpired parses the JWT without verifying its signature; the server
// is the authority on validity, this only avoids resuming a session the
// server is guaranteed to reject.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return exp.Before(nowFunc())
}

// nowFunc is replaced in tests.
var nowFunc = time.Now
