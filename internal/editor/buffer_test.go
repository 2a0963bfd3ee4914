package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notewire/notewire/internal/models"
	"github.com/notewire/notewire/internal/store"
)

func TestBuffer_LoadsFromStoreCopy(t *testing.T) {
	b := NewBuffer(models.Note{ID: "n1", Title: "plan", Content: "body"})

	assert.Equal(t, models.ID("n1"), b.NoteID())
	assert.Equal(t, "plan", b.Title())
	assert.Equal(t, "body", b.Content())
	assert.False(t, b.Dirty())
}

func TestBuffer_EditsMarkDirty(t *testing.T) {
	b := NewBuffer(models.Note{ID: "n1"})

	b.SetTitle("t")
	assert.True(t, b.Dirty())

	b.SetContent("line one")
	b.AppendLine("line two")
	assert.Equal(t, "line one\nline two", b.Content())
}

func TestBuffer_ResyncOverwritesOnRemoteChange(t *testing.T) {
	b := NewBuffer(models.Note{ID: "n1", Title: "old", Content: "old body"})
	b.SetContent("half-typed local edit")

	changed := b.Resync(models.Note{ID: "n1", Title: "new", Content: "remote body"}, store.CauseRemote)

	assert.True(t, changed)
	assert.Equal(t, "new", b.Title())
	assert.Equal(t, "remote body", b.Content(), "remote wins wholesale, no field merge")
	assert.False(t, b.Dirty())
}

func TestBuffer_ResyncSkipsOwnSaveResult(t *testing.T) {
	b := NewBuffer(models.Note{ID: "n1", Content: "typed"})
	b.SetContent("typed more")

	changed := b.Resync(models.Note{ID: "n1", Content: "typed"}, store.CauseLocalSave)

	assert.False(t, changed, "our own save landing back must not clobber newer keystrokes")
	assert.Equal(t, "typed more", b.Content())
}

func TestBuffer_ResyncIgnoresOtherNotes(t *testing.T) {
	b := NewBuffer(models.Note{ID: "n1", Content: "mine"})

	changed := b.Resync(models.Note{ID: "n2", Content: "other"}, store.CauseRemote)

	assert.False(t, changed)
	assert.Equal(t, "mine", b.Content())
}
