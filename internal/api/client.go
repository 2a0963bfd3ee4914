// Package api is the HTTP client for the note backend. It owns bearer-token
// injection, error normalization (nothing raw crosses into the UI), and the
// supersession of in-flight list fetches.
package api

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
	"sync"
	"time"

	"github.com/notewire/notewire/internal/logging"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	base string
	http *http.Client
	log  logging.Logger

	mu             sync.Mutex
	token          string
	onUnauthorized func()

	listMu     sync.Mutex
	cancelList context.CancelFunc
	listGen    uint64
}

// NewClient builds a client for the given base URL, e.g.
// "http://localhost:5000/api".
func NewClient(base string, log logging.Logger) *Client {
	if log == nil {
		log = logging.Discard
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: defaultTimeout},
		log:  log,
	}
}

// SetToken installs the bearer token attached to all non-auth requests.
// An empty token detaches it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// OnUnauthorized registers the hook fired whenever an authenticated request
// comes back 401. The session layer uses it to force a logout.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// do runs one request/response cycle. body and out may be nil. When authed
// is true the bearer token is attached and a 401 fires the unauthorized
// hook; auth endpoints pass false so a failed login cannot log anyone out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if token := c.currentToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return ErrCancelled
		}
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := responseMessage(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized && authed {
			c.log.Warn(ctx, "authenticated request rejected, forcing logout", "path", path)
			c.fireUnauthorized()
		}
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) fireUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// responseMessage extracts the backend's {"message": ...} error body, if any.
func responseMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}
