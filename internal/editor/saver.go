package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/notewire/notewire/internal/api"
	"github.com/notewire/notewire/internal/logging"
	"github.com/notewire/notewire/internal/models"
	"github.com/notewire/notewire/internal/store"
)

// Updater is the durable save path; *api.Client satisfies it.
type Updater interface {
	UpdateNote(ctx context.Context, id models.ID, req api.UpdateRequest) (models.Note, error)
}

// Broadcaster is the low-latency push path; *realtime.Channel satisfies it.
// Implementations drop silently when the channel is down.
type Broadcaster interface {
	SendUpdate(noteID models.ID, content, title string)
}

// Notifier surfaces a non-blocking notice to the user.
type Notifier func(message string)

// noopBroadcaster stands in when no push channel is connected.
type noopBroadcaster struct{}

func (noopBroadcaster) SendUpdate(models.ID, string, string) {}

// Config carries the coordinator's timing knobs. Zero values take the
// reference defaults; tests shrink them.
type Config struct {
	// Debounce is the quiet period after the last change before a save fires.
	Debounce time.Duration
	// PushThrottle caps push broadcasts while typing.
	PushThrottle time.Duration
	// RetryDelay is the pause before the single retry of a failed save.
	RetryDelay time.Duration
	// RequestTimeout bounds each durable save request.
	RequestTimeout time.Duration
}

const (
	defaultDebounce       = time.Second
	defaultPushThrottle   = 100 * time.Millisecond
	defaultRetryDelay     = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
)

func (c *Config) applyDefaults() {
	if c.Debounce <= 0 {
		c.Debounce = defaultDebounce
	}
	if c.PushThrottle <= 0 {
		c.PushThrottle = defaultPushThrottle
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
}

type pendingEdit struct {
	noteID  models.ID
	content string
	title   string
}

// Saver coalesces local edits into durable saves. Rapid changes stream to
// collaborators through the throttled push path; the durable PATCH fires
// once a quiet period elapses, and its canonical result is merged back into
// the store. A failed save arms exactly one retry.
//
// There is deliberately no mutual exclusion between overlapping saves: a
// newer debounced fire may be issued before an older one resolves. The
// store's timestamp-preferring merge keeps the end state coherent.
type SaveCoordinator struct {
	updater Updater
	channel Broadcaster
	store   *store.Store
	notify  Notifier
	cfg     Config
	limiter *rate.Limiter
	log     logging.Logger

	mu            sync.Mutex
	pending       pendingEdit
	hasPending    bool
	debounceTimer *time.Timer
	retryTimer    *time.Timer
	lastSaved     time.Time
	inflight      int
	closed        bool
}

// NewSaver wires a coordinator for one editing session.
func NewSaver(updater Updater, channel Broadcaster, st *store.Store, notify Notifier, cfg Config, log logging.Logger) *SaveCoordinator {
	cfg.applyDefaults()
	if log == nil {
		log = logging.Discard
	}
	if notify == nil {
		notify = func(string) {}
	}
	if channel == nil {
		channel = noopBroadcaster{}
	}
	return &SaveCoordinator{
		updater: updater,
		channel: channel,
		store:   st,
		notify:  notify,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.PushThrottle), 1),
		log:     log.With("component", "saver"),
	}
}

// OnChange records an edit. The push path streams it immediately when the
// throttle window allows; the durable save is (re)scheduled for after the
// quiet period.
func (s *SaveCoordinator) OnChange(noteID models.ID, content, title string) {
	if noteID.IsZero() {
		s.log.Warn(context.Background(), "change without note id, ignoring")
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = pendingEdit{noteID: noteID, content: content, title: title}
	s.hasPending = true

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.cfg.Debounce, s.fire)

	stream := s.limiter.Allow()
	s.mu.Unlock()

	if stream {
		s.channel.SendUpdate(noteID, content, title)
	}
}

// fire runs on the debounce timer: broadcast the coalesced edit and issue
// the durable save.
func (s *SaveCoordinator) fire() {
	s.mu.Lock()
	if s.closed || !s.hasPending {
		s.mu.Unlock()
		return
	}
	p := s.pending
	s.hasPending = false
	s.mu.Unlock()

	s.channel.SendUpdate(p.noteID, p.content, p.title)
	s.save(p, false)
}

func (s *SaveCoordinator) save(p pendingEdit, isRetry bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.inflight++
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	defer cancel()

	note, err := s.updater.UpdateNote(ctx, p.noteID, api.UpdateRequest{
		Title:   &p.title,
		Content: &p.content,
	})

	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()

	switch {
	case err == nil:
		s.store.Upsert(models.PatchOf(note), store.CauseLocalSave)
		s.mu.Lock()
		s.lastSaved = time.Now()
		if s.retryTimer != nil {
			s.retryTimer.Stop()
			s.retryTimer = nil
		}
		s.mu.Unlock()
		s.log.Debug(ctx, "note saved", "note", p.noteID)

	case errors.Is(err, api.ErrCancelled):
		// Locally torn down; not a failure worth surfacing.

	default:
		s.log.Warn(ctx, "durable save failed", "note", p.noteID, "retry", isRetry, "err", err)
		s.notify("Changes will be saved when the connection is restored")
		if !isRetry {
			s.armRetry(p)
		}
	}
}

// armRetry schedules the single retry. A newer failure replaces an armed
// one; a retry that itself fails does not chain.
func (s *SaveCoordinator) armRetry(p pendingEdit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.retryTimer = time.AfterFunc(s.cfg.RetryDelay, func() {
		s.save(p, true)
	})
}

// Flush pushes any pending edit through immediately, bypassing the
// remaining debounce wait. Used when the editor closes.
func (s *SaveCoordinator) Flush() {
	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()
	s.fire()
}

// LastSaved reports when a durable save last succeeded.
func (s *SaveCoordinator) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// Saving reports whether a durable save is currently in flight.
func (s *SaveCoordinator) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Close cancels all scheduled work. Unlike the browser original, no orphaned
// timer outlives the editor: pending debounce and retry fires are dropped.
func (s *SaveCoordinator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
}
