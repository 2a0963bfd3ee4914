package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notewire/notewire/internal/models"
)

func noteJSON(id, title, content string) map[string]any {
	return map[string]any{"_id": id, "title": title, "content": content}
}

func TestListNotes_DecodesPageAndPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("showArchived"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"notes": []any{noteJSON("a", "t1", "c1"), noteJSON("b", "t2", "c2")},
			"pagination": map[string]any{
				"currentPage": 2, "totalPages": 3, "hasNextPage": true, "hasPrevPage": true,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	res, err := c.ListNotes(context.Background(), 2, 10, true)
	require.NoError(t, err)

	require.Len(t, res.Notes, 2)
	assert.Equal(t, models.ID("a"), res.Notes[0].ID)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.True(t, res.Pagination.HasNextPage)
}

func TestListNotes_NewFetchSupersedesInFlightOne(t *testing.T) {
	firstStarted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			close(firstStarted)
			<-r.Context().Done() // hold until the client cancels us
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"notes":      []any{noteJSON("b", "t", "c")},
			"pagination": map[string]any{"currentPage": 2},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	firstErr := make(chan error, 1)
	go func() {
		_, err := c.ListNotes(context.Background(), 1, 10, false)
		firstErr <- err
	}()
	<-firstStarted

	res, err := c.ListNotes(context.Background(), 2, 10, false)
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)

	assert.ErrorIs(t, <-firstErr, ErrCancelled, "superseded fetch is cancelled, not surfaced")
}

func TestCreateNote_RequiresTitleAndDefaultsContent(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(noteJSON("n1", gotBody["title"], gotBody["content"]))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	_, err := c.CreateNote(context.Background(), "   ", "x")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	n, err := c.CreateNote(context.Background(), " plan ", "")
	require.NoError(t, err)
	assert.Equal(t, "plan", gotBody["title"])
	assert.Equal(t, "New note", gotBody["content"])
	assert.Equal(t, models.ID("n1"), n.ID)
}

func TestUpdateNote_SendsSparsePatch(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/notes/n1", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(noteJSON("n1", "t", "updated"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	content := "updated"
	n, err := c.UpdateNote(context.Background(), "n1", UpdateRequest{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, "updated", n.Content)
	_, hasTitle := gotBody["title"]
	assert.False(t, hasTitle, "omitted fields must not be sent")
}

func TestDeleteNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	require.NoError(t, c.DeleteNote(context.Background(), "n1"))
}

func TestShareNote_ErrorMessagesByStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		message  string
		sentinel error
		contains string
	}{
		{"unknown user", http.StatusNotFound, "user not found", ErrNotFound, "no account found for bob@example.com"},
		{"missing note", http.StatusNotFound, "note not found", ErrNotFound, "note no longer exists"},
		{"not the owner", http.StatusForbidden, "forbidden", ErrForbidden, "only the owner"},
		{"backend blew up", http.StatusInternalServerError, "oops", ErrUnavailable, "try again later"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": tc.message})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, nil)
			_, err := c.ShareNote(context.Background(), "n1", "bob@example.com", models.PermissionRead)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestShareNote_ValidatesInput(t *testing.T) {
	c := NewClient("http://unused.invalid", nil)

	_, err := c.ShareNote(context.Background(), "n1", "nope", models.PermissionRead)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = c.ShareNote(context.Background(), "n1", "bob@example.com", "admin")
	assert.ErrorIs(t, err, ErrInvalidPermission)
}

func TestShareNote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notes/n1/share", r.URL.Path)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "write", body["permission"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"_id": "n1", "title": "t", "content": "c",
			"collaborators": []any{
				map[string]any{"userId": map[string]any{"_id": "u2", "email": body["email"]}, "permission": "write"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	n, err := c.ShareNote(context.Background(), "n1", "bob@example.com", models.PermissionWrite)
	require.NoError(t, err)
	require.Len(t, n.Collaborators, 1)
	assert.Equal(t, models.PermissionWrite, n.Collaborators[0].Permission)
}
