package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "n1", "title": "t", "content": "c"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	c.SetToken("tok123")

	_, err := c.GetNote(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestDo_UnauthorizedFiresHookAndMapsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	c.SetToken("stale")
	fired := false
	c.OnUnauthorized(func() { fired = true })

	_, err := c.GetNote(context.Background(), "n1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "token expired")
	assert.True(t, fired, "401 on an authenticated call must force logout")
}

func TestLogin_BadCredentialsDoNotFireHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	fired := false
	c.OnUnauthorized(func() { fired = true })

	_, err := c.Login(context.Background(), "ann@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, fired, "a failed login is not a session-expiry event")
}

func TestLogin_NormalizesUserIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"_id": "u1", "name": "Ann", "email": "ann@example.com"},
			"token": "tok",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	creds, err := c.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "tok", creds.Token)
	assert.Equal(t, creds.User.ID, creds.User.AltID, "both id fields populated")
	assert.True(t, creds.User.Matches("u1"))
}

func TestLogin_ValidatesEmailBeforeSending(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Login(context.Background(), "not-an-email", "secret")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.False(t, hit)
}

func TestRegister_ValidatesPasswordLength(t *testing.T) {
	c := NewClient("http://unused.invalid", nil)
	_, err := c.Register(context.Background(), "Ann", "ann@example.com", "abc")
	assert.ErrorIs(t, err, ErrShortPassword)
}

func TestDo_NetworkFailureMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, nil)
	_, err := c.GetNote(context.Background(), "n1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_ContextCancelMapsToCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.GetNote(ctx, "n1")
	assert.ErrorIs(t, err, ErrCancelled)
}
