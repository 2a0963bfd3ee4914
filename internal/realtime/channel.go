// Package realtime maintains the WebSocket push channel to the backend:
// outbound fire-and-forget edit broadcasts and room membership, inbound
// note updates and notifications from collaborators.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/notewire/notewire/internal/logging"
	"github.com/notewire/notewire/internal/models"
)

// Handlers receive inbound traffic. Both are optional; nil handlers drop
// their events.
type Handlers struct {
	// NoteUpdated fires for every note-updated push from the server.
	NoteUpdated func(models.NotePatch)
	// Notification fires for human-readable collaborator notices.
	Notification func(message string)
}

// Options configures a Channel.
type Options struct {
	// URL is the WebSocket endpoint, e.g. "ws://localhost:5000/ws".
	URL string
	// ReconnectAttempts bounds automatic redials after a dropped
	// connection; 0 disables reconnection.
	ReconnectAttempts uint64
	// ReconnectInitial and ReconnectMax bound the backoff between redials.
	ReconnectInitial time.Duration
	ReconnectMax     time.Duration
	Logger           logging.Logger
}

const outboundBuffer = 64

// Channel is a client for the push endpoint. Its lifetime is coupled to the
// session: Connect on login, Close on logout. Emits while disconnected are
// dropped silently; the durable save path is the source of truth.
type Channel struct {
	opts     Options
	handlers Handlers
	log      logging.Logger
	clientID string
	now      func() time.Time

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	token     string
	room      models.ID

	out       chan Envelope
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(opts Options, handlers Handlers) *Channel {
	log := opts.Logger
	if log == nil {
		log = logging.Discard
	}
	if opts.ReconnectInitial <= 0 {
		opts.ReconnectInitial = time.Second
	}
	if opts.ReconnectMax <= 0 {
		opts.ReconnectMax = 5 * time.Second
	}
	return &Channel{
		opts:     opts,
		handlers: handlers,
		log:      log.With("component", "realtime"),
		clientID: uuid.NewString(),
		now:      time.Now,
		out:      make(chan Envelope, outboundBuffer),
		done:     make(chan struct{}),
	}
}

// Connect dials the endpoint with the session token and starts the read and
// write pumps. It must not be called while Anonymous.
func (c *Channel) Connect(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	c.install(conn)

	c.wg.Add(2)
	go c.readPump(conn)
	go c.writePump()

	c.log.Info(ctx, "push channel connected", "url", c.opts.URL)
	return nil
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("X-Client-ID", c.clientID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.opts.URL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	return conn, err
}

func (c *Channel) install(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
}

// Connected reports whether the channel currently has a live connection.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// JoinNote enters a note room so the server forwards that note's updates.
// The active room is remembered and re-joined after a reconnect.
func (c *Channel) JoinNote(id models.ID) {
	c.mu.Lock()
	c.room = id
	c.mu.Unlock()
	c.emit(eventJoinNote, id)
}

// LeaveNote exits the note room and forgets it.
func (c *Channel) LeaveNote(id models.ID) {
	c.mu.Lock()
	if c.room.Equal(id) {
		c.room = ""
	}
	c.mu.Unlock()
	c.emit(eventLeaveNote, id)
}

// SendUpdate broadcasts an in-progress edit. Fire-and-forget: no ack, and
// dropped silently when the channel is down.
func (c *Channel) SendUpdate(noteID models.ID, content, title string) {
	c.emit(eventNoteUpdate, UpdatePayload{
		NoteID:    noteID,
		Content:   content,
		Title:     title,
		Timestamp: c.now(),
	})
}

func (c *Channel) emit(event string, data any) {
	if !c.Connected() {
		c.log.Debug(context.Background(), "channel down, dropping event", "event", event)
		return
	}
	env, err := makeEnvelope(event, data)
	if err != nil {
		c.log.Error(context.Background(), "encoding event", "event", event, "err", err)
		return
	}
	select {
	case c.out <- env:
	default:
		c.log.Warn(context.Background(), "outbound queue full, dropping event", "event", event)
	}
}

// Close tears the channel down permanently. Safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), c.now().Add(time.Second))
			_ = c.conn.Close()
		}
		c.connected = false
		c.room = ""
		c.mu.Unlock()
		c.wg.Wait()
	})
}

func (c *Channel) writePump() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case env := <-c.out:
			c.mu.Lock()
			conn := c.conn
			ok := c.connected
			c.mu.Unlock()
			if !ok || conn == nil {
				continue // dropped, same as an emit while disconnected
			}
			if err := conn.WriteJSON(env); err != nil {
				c.log.Warn(context.Background(), "write failed", "event", env.Event, "err", err)
			}
		}
	}
}

func (c *Channel) readPump(conn *websocket.Conn) {
	defer c.wg.Done()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			c.mu.Lock()
			c.connected = false
			c.mu.Unlock()
			_ = conn.Close()
			c.reconnect()
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Warn(context.Background(), "malformed frame", "err", err)
			continue
		}
		c.dispatch(env)
	}
}

func (c *Channel) dispatch(env Envelope) {
	switch env.Event {
	case eventNoteUpdated:
		var patch models.NotePatch
		if err := json.Unmarshal(env.Data, &patch); err != nil {
			c.log.Warn(context.Background(), "malformed note-updated payload", "err", err)
			return
		}
		if patch.ID.IsZero() {
			c.log.Warn(context.Background(), "note-updated without id")
			return
		}
		if c.handlers.NoteUpdated != nil {
			c.handlers.NoteUpdated(patch)
		}
	case eventNotification:
		var p notificationPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			c.log.Warn(context.Background(), "malformed notification payload", "err", err)
			return
		}
		if c.handlers.Notification != nil {
			c.handlers.Notification(p.Message)
		}
	default:
		c.log.Debug(context.Background(), "ignoring unknown event", "event", env.Event)
	}
}

// reconnect redials with bounded exponential backoff and, on success,
// re-joins the note room that was active when the connection dropped.
func (c *Channel) reconnect() {
	if c.opts.ReconnectAttempts == 0 {
		c.log.Warn(context.Background(), "connection lost, reconnection disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-c.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.ReconnectInitial
	bo.MaxInterval = c.opts.ReconnectMax

	var conn *websocket.Conn
	err := backoff.Retry(func() error {
		var dialErr error
		conn, dialErr = c.dial(ctx)
		if dialErr != nil {
			c.log.Warn(ctx, "reconnect attempt failed", "err", dialErr)
		}
		return dialErr
	}, backoff.WithContext(backoff.WithMaxRetries(bo, c.opts.ReconnectAttempts), ctx))
	if err != nil {
		c.log.Error(ctx, "lost connection to server", "err", err)
		if c.handlers.Notification != nil {
			c.handlers.Notification("Lost connection to server")
		}
		return
	}

	select {
	case <-c.done:
		_ = conn.Close()
		return
	default:
	}

	c.install(conn)

	c.mu.Lock()
	room := c.room
	c.mu.Unlock()
	if !room.IsZero() {
		c.emit(eventJoinNote, room)
	}

	c.log.Info(ctx, "push channel reconnected")
	c.wg.Add(1)
	go c.readPump(conn)
}
