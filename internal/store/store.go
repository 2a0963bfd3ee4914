// Package store holds the canonical, session-scoped note collection. Every
// view reads from it and every mutation path (list fetches, local saves,
// remote push events, creations, deletions) goes through its operations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notewire/notewire/internal/logging"
	"github.com/notewire/notewire/internal/models"
)

// Cause labels why a note changed, so the edit buffer can tell its own save
// results apart from everything else.
type Cause int

const (
	// CauseList marks a change from a page fetch.
	CauseList Cause = iota
	// CauseLocalSave marks the result of this client's durable save.
	CauseLocalSave
	// CauseRemote marks an inbound push event from a collaborator.
	CauseRemote
	// CauseLocal marks other local mutations (open, create, share).
	CauseLocal
	// CauseClear marks a session reset.
	CauseClear
)

// Event is delivered to watchers after a mutation is applied.
type Event struct {
	NoteID models.ID
	Cause  Cause
}

// Store is the single source of truth for notes visible to the session.
// It is safe for concurrent use. Construct one per session scope; nothing
// here is global.
type Store struct {
	mu       sync.RWMutex
	notes    []models.Note
	current  *models.Note
	loading  bool
	errMsg   string
	now      func() time.Time
	log      logging.Logger
	watchers map[int]chan Event
	nextID   int
}

func New(log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard
	}
	return &Store{
		now:      time.Now,
		log:      log,
		watchers: make(map[int]chan Event),
	}
}

// SetClock replaces the timestamp source. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Notes returns a copy of the list in its current order.
func (s *Store) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Get returns the note with the given id, if present.
func (s *Store) Get(id models.ID) (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return models.Note{}, false
}

// Current returns the note open in the editor, if any.
func (s *Store) Current() (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Note{}, false
	}
	return *s.current, true
}

// ReplaceList merges a full page fetch into the store. An empty local list
// is replaced outright; otherwise incoming notes update matching entries
// field-by-field and new ones are appended, and the result is re-sorted by
// lastUpdated descending. Loading and error flags are reset.
//
// Unlike Upsert and Remove, ReplaceList leaves current untouched: a page
// payload can be a filtered view that omits the open note, and the open-note
// path refreshes current itself via SetCurrent.
func (s *Store) ReplaceList(incoming []models.Note) {
	s.mu.Lock()

	if len(s.notes) == 0 {
		s.notes = make([]models.Note, len(incoming))
		copy(s.notes, incoming)
	} else {
		for _, n := range incoming {
			if i := s.indexOf(n.ID); i >= 0 {
				s.mergeFull(&s.notes[i], n)
			} else {
				s.notes = append(s.notes, n)
			}
		}
		sort.SliceStable(s.notes, func(i, j int) bool {
			return s.notes[i].LastUpdated.After(s.notes[j].LastUpdated)
		})
	}

	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()

	s.notify(Event{Cause: CauseList})
}

// Upsert merges a partial update by id, inserting when absent. A sparse
// payload never erases collaborator or creator metadata, and a missing
// timestamp defaults to now. When both sides carry a timestamp the later
// one wins: a slow save response cannot clobber a newer push update.
// The current-note reference receives the identical merge when it holds
// the same id.
func (s *Store) Upsert(p models.NotePatch, cause Cause) {
	if p.ID.IsZero() {
		s.log.Warn(context.Background(), "ignoring note update without id")
		return
	}

	s.mu.Lock()
	if p.LastUpdated.IsZero() {
		p.LastUpdated = s.now()
	}

	if i := s.indexOf(p.ID); i >= 0 {
		if s.notes[i].LastUpdated.After(p.LastUpdated) {
			s.log.Debug(context.Background(), "dropping stale note update",
				"note", p.ID, "have", s.notes[i].LastUpdated, "got", p.LastUpdated)
			s.mu.Unlock()
			return
		}
		s.notes[i].Apply(p)
	} else {
		var n models.Note
		n.Apply(p)
		s.notes = append(s.notes, n)
	}

	if s.current != nil && s.current.ID.Equal(p.ID) {
		s.current.Apply(p)
	}
	s.mu.Unlock()

	s.notify(Event{NoteID: p.ID, Cause: cause})
}

// SetCurrent makes the note current and upserts it into the list, so a
// freshly opened note shows up in later list renders without a re-fetch.
func (s *Store) SetCurrent(n models.Note) {
	s.mu.Lock()
	if i := s.indexOf(n.ID); i >= 0 {
		s.mergeFull(&s.notes[i], n)
		cp := s.notes[i]
		s.current = &cp
	} else {
		s.notes = append(s.notes, n)
		cp := n
		s.current = &cp
	}
	s.mu.Unlock()

	s.notify(Event{NoteID: n.ID, Cause: CauseLocal})
}

// ClearCurrent closes the editor view without touching the list.
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Add inserts a newly created note at the front; if the id already exists
// the entry is merged instead.
func (s *Store) Add(n models.Note) {
	s.mu.Lock()
	if i := s.indexOf(n.ID); i >= 0 {
		s.mergeFull(&s.notes[i], n)
	} else {
		s.notes = append([]models.Note{n}, s.notes...)
	}
	s.mu.Unlock()

	s.notify(Event{NoteID: n.ID, Cause: CauseLocal})
}

// Remove deletes a note by id and clears the current note when it matches.
func (s *Store) Remove(id models.ID) {
	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.notes = append(s.notes[:i], s.notes[i+1:]...)
	}
	if s.current != nil && s.current.ID.Equal(id) {
		s.current = nil
	}
	s.mu.Unlock()

	s.notify(Event{NoteID: id, Cause: CauseLocal})
}

// Clear empties the list, the current note, and the status flags. Invoked
// on logout and before a new login so nothing leaks across sessions.
func (s *Store) Clear() {
	s.mu.Lock()
	s.notes = nil
	s.current = nil
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()

	s.notify(Event{Cause: CauseClear})
}

func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError records a user-facing error message and ends the loading state.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Watch registers a change listener. The returned cancel func must be
// called when done. Events are delivered best-effort: a slow listener
// misses events rather than blocking mutations.
func (s *Store) Watch() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Event, 16)
	s.watchers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id models.ID) int {
	for i := range s.notes {
		if s.notes[i].ID.Equal(id) {
			return i
		}
	}
	return -1
}

// mergeFull overlays a complete note onto an existing entry, keeping the
// existing collaborator and creator metadata when the incoming copy lacks
// them. Must be called with the lock held.
func (s *Store) mergeFull(dst *models.Note, src models.Note) {
	dst.Apply(models.PatchOf(src))
}
