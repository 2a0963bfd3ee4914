// Package cli implements the interactive notewire client: a REPL for
// browsing, editing and sharing notes against a notewire server.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/notewire/notewire/internal/api"
	"github.com/notewire/notewire/internal/config"
	"github.com/notewire/notewire/internal/editor"
	"github.com/notewire/notewire/internal/logging"
	"github.com/notewire/notewire/internal/models"
	"github.com/notewire/notewire/internal/realtime"
	"github.com/notewire/notewire/internal/session"
	"github.com/notewire/notewire/internal/store"
)

// noteAPI is the slice of the API client the commands need. The real
// api.Client satisfies it; tests can provide a stub.
type noteAPI interface {
	ListNotes(ctx context.Context, page, limit int, showArchived bool) (api.ListResult, error)
	GetNote(ctx context.Context, id models.ID) (models.Note, error)
	CreateNote(ctx context.Context, title, content string) (models.Note, error)
	UpdateNote(ctx context.Context, id models.ID, req api.UpdateRequest) (models.Note, error)
	DeleteNote(ctx context.Context, id models.ID) error
	ShareNote(ctx context.Context, id models.ID, email string, permission models.Permission) (models.Note, error)
}

// sessions is the slice of the session manager the commands need.
type sessions interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	Logout()
	Rehydrate(ctx context.Context) bool
	Authenticated() bool
	Current() models.Session
	Channel() session.Channel
}

// App wires the client components together and hosts the REPL command
// handlers. All dependencies are injected so tests can run it headless.
type App struct {
	cfg      *config.Config
	log      logging.Logger
	api      noteAPI
	sessions sessions
	notes    *store.Store
	feed     *store.Feed

	reader *bufio.Reader
	out    io.Writer

	// list view state
	page         int
	showArchived bool
	pagination   models.Pagination
}

// NewApp builds the full client: API client, stores, session manager and
// realtime channel factory, configured from cfg.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	client := api.NewClient(cfg.ServerURL, log)
	notes := store.New(log)
	feed := store.NewFeed(0)

	newChannel := func() session.Channel {
		return realtime.New(realtime.Options{
			URL:               cfg.RealtimeURL,
			ReconnectAttempts: cfg.ReconnectAttempts,
			ReconnectInitial:  cfg.ReconnectInitial,
			ReconnectMax:      cfg.ReconnectMax,
			Logger:            log,
		}, realtime.Handlers{
			NoteUpdated: func(p models.NotePatch) {
				notes.Upsert(p, store.CauseRemote)
			},
			Notification: func(msg string) {
				feed.Push(msg)
			},
		})
	}

	mgr := session.NewManager(client, newChannel, session.NewStorage(cfg.StateDir), notes, feed, log)
	client.OnUnauthorized(func() {
		mgr.ForceLogout("Your session has expired, please log in again")
	})

	return &App{
		cfg:      cfg,
		log:      log,
		api:      client,
		sessions: mgr,
		notes:    notes,
		feed:     feed,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		page:     1,
	}
}

// Run restores any saved session and enters the REPL. It returns when the
// user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	if a.sessions.Rehydrate(ctx) {
		a.printf("Welcome back, %s\n", a.sessions.Current().User.Name)
	}
	defer a.sessions.Logout()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Authenticated()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	s := a.sessions.Current()
	name := s.User.Name
	if name == "" {
		name = s.User.Email
	}
	if unread := a.feed.Unread(); unread > 0 {
		return fmt.Sprintf("(%s, %d unread)", name, unread)
	}
	return fmt.Sprintf("(%s)", name)
}

func (a *App) editorConfig() editor.Config {
	return editor.Config{
		Debounce:       a.cfg.SaveDebounce,
		PushThrottle:   a.cfg.PushThrottle,
		RetryDelay:     a.cfg.SaveRetryDelay,
		RequestTimeout: a.cfg.RequestTimeout,
	}
}

// notify pushes a user-visible notice onto the feed and prints it.
func (a *App) notify(msg string) {
	a.feed.Push(msg)
	a.printf("! %s\n", msg)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
