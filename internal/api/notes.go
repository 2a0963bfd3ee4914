package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/notewire/notewire/internal/models"
)

// ListResult is one page of notes plus its pagination envelope.
type ListResult struct {
	Notes      []models.Note     `json:"notes"`
	Pagination models.Pagination `json:"pagination"`
}

// UpdateRequest is a sparse note mutation; nil fields are left untouched
// by the backend.
type UpdateRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ListNotes fetches one page. Issuing a new list fetch cancels any previous
// one still in flight, so only the latest page request's result is ever
// applied; the superseded call returns ErrCancelled.
func (c *Client) ListNotes(ctx context.Context, page, limit int, showArchived bool) (ListResult, error) {
	c.listMu.Lock()
	if c.cancelList != nil {
		c.cancelList()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.listGen++
	gen := c.listGen
	c.cancelList = cancel
	c.listMu.Unlock()

	defer func() {
		cancel()
		c.listMu.Lock()
		// Drop the handle only if a newer fetch has not replaced it.
		if c.listGen == gen {
			c.cancelList = nil
		}
		c.listMu.Unlock()
	}()

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("showArchived", strconv.FormatBool(showArchived))

	var res ListResult
	if err := c.do(ctx, http.MethodGet, "/notes", q, nil, &res, true); err != nil {
		if errors.Is(err, ErrCancelled) {
			return ListResult{}, ErrCancelled
		}
		return ListResult{}, fmt.Errorf("listing notes: %w", err)
	}
	return res, nil
}

// GetNote fetches a single note by id.
func (c *Client) GetNote(ctx context.Context, id models.ID) (models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id.String()), nil, nil, &n, true); err != nil {
		return models.Note{}, fmt.Errorf("fetching note: %w", err)
	}
	return n, nil
}

// CreateNote creates a note. The title is required; an empty content body
// falls back to a placeholder, matching the backend's expectations.
func (c *Client) CreateNote(ctx context.Context, title, content string) (models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Note{}, ErrEmptyTitle
	}
	content = strings.TrimSpace(content)
	if content == "" {
		content = "New note"
	}

	body := map[string]string{"title": title, "content": content}
	var n models.Note
	if err := c.do(ctx, http.MethodPost, "/notes", nil, body, &n, true); err != nil {
		return models.Note{}, fmt.Errorf("creating note: %w", err)
	}
	return n, nil
}

// UpdateNote sends a durable PATCH and returns the canonical saved note.
func (c *Client) UpdateNote(ctx context.Context, id models.ID, req UpdateRequest) (models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id.String()), nil, req, &n, true); err != nil {
		return models.Note{}, fmt.Errorf("saving note: %w", err)
	}
	return n, nil
}

// DeleteNote removes a note by id.
func (c *Client) DeleteNote(ctx context.Context, id models.ID) error {
	if err := c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id.String()), nil, nil, nil, true); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

// ShareNote grants a user read or write access by email and returns the
// updated note. Failures are mapped to human-readable messages by status.
func (c *Client) ShareNote(ctx context.Context, id models.ID, email string, permission models.Permission) (models.Note, error) {
	if !emailRx.MatchString(email) {
		return models.Note{}, ErrInvalidEmail
	}
	if !permission.Valid() {
		return models.Note{}, ErrInvalidPermission
	}

	body := map[string]string{"email": email, "permission": string(permission)}
	var n models.Note
	err := c.do(ctx, http.MethodPost, "/notes/"+url.PathEscape(id.String())+"/share", nil, body, &n, true)
	if err != nil {
		return models.Note{}, shareError(err, email)
	}
	return n, nil
}

// shareError rewrites share failures into the specific messages the UI
// shows: a 404 for the target user reads differently from a missing note.
func shareError(err error, email string) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("sharing note: %w", err)
	}
	switch se.Status {
	case http.StatusNotFound:
		if strings.Contains(strings.ToLower(se.Message), "user") {
			return fmt.Errorf("%w: no account found for %s", ErrNotFound, email)
		}
		return fmt.Errorf("%w: note no longer exists", ErrNotFound)
	case http.StatusForbidden:
		return fmt.Errorf("%w: only the owner can share this note", ErrForbidden)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: sharing failed, try again later", ErrUnavailable)
	default:
		return fmt.Errorf("sharing note: %w", err)
	}
}
