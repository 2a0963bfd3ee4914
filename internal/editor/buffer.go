// Package editor implements the client side of collaborative editing: a
// scratch buffer for the note being edited and the coordinator that turns
// keystrokes into throttled push broadcasts and debounced durable saves.
package editor

import (
	"sync"

	"github.com/notewire/notewire/internal/models"
	"github.com/notewire/notewire/internal/store"
)

// Buffer holds the locally edited title and content for one open note,
// separate from the store's copy. The store stays authoritative: the buffer
// resyncs from it on every change that was not caused by its own save.
type Buffer struct {
	mu      sync.Mutex
	noteID  models.ID
	title   string
	content string
	dirty   bool
}

// NewBuffer initializes the buffer from the store's copy of the note.
func NewBuffer(n models.Note) *Buffer {
	return &Buffer{
		noteID:  n.ID,
		title:   n.Title,
		content: n.Content,
	}
}

func (b *Buffer) NoteID() models.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.noteID
}

func (b *Buffer) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

func (b *Buffer) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

func (b *Buffer) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

// SetTitle records a local title edit.
func (b *Buffer) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
	b.dirty = true
}

// SetContent records a local content edit.
func (b *Buffer) SetContent(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = content
	b.dirty = true
}

// AppendLine appends one entered line to the content, the keystroke
// granularity of a line-oriented editor.
func (b *Buffer) AppendLine(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.content == "" {
		b.content = line
	} else {
		b.content += "\n" + line
	}
	b.dirty = true
}

// Snapshot returns the current note id, content, and title together, the
// payload shape the save coordinator works with.
func (b *Buffer) Snapshot() (models.ID, string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.noteID, b.content, b.title
}

// Resync overwrites the buffer from the store after a change to the same
// note, unless the change is this client's own save landing back. Remote
// wins wholesale; there is no per-field merge. Reports whether the buffer
// was overwritten.
func (b *Buffer) Resync(n models.Note, cause store.Cause) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !n.ID.Equal(b.noteID) {
		return false
	}
	if cause == store.CauseLocalSave {
		// Our own save result; the buffer already holds this text
		// (or newer keystrokes that must not be clobbered).
		return false
	}

	b.title = n.Title
	b.content = n.Content
	b.dirty = false
	return true
}
