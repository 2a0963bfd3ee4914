package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notewire/notewire/internal/models"
)

func TestStorage_SaveLoadClear(t *testing.T) {
	st := NewStorage(filepath.Join(t.TempDir(), "state"))

	user := models.UserRef{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, st.Save("tok-123", user))

	token, got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, models.ID("u1"), got.ID)
	assert.Equal(t, models.ID("u1"), got.AltID)
	assert.Equal(t, "Ada", got.Name)

	require.NoError(t, st.Clear())
	_, _, err = st.Load()
	assert.ErrorIs(t, err, ErrNoSavedSession)
}

func TestStorage_LoadWithoutFile(t *testing.T) {
	st := NewStorage(t.TempDir())
	_, _, err := st.Load()
	assert.ErrorIs(t, err, ErrNoSavedSession)
}

func TestStorage_ClearIsIdempotent(t *testing.T) {
	st := NewStorage(t.TempDir())
	require.NoError(t, st.Clear())
	require.NoError(t, st.Clear())
}

func TestStorage_FileIsPrivate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	st := NewStorage(dir)
	require.NoError(t, st.Save("tok", models.UserRef{ID: "u1"}))

	info, err := os.Stat(filepath.Join(dir, stateFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
