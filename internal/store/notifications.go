package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification is one entry in the in-memory notification feed.
type Notification struct {
	ID      string
	Message string
	Read    bool
	At      time.Time
}

// Feed is a bounded, newest-first notification list fed by the push
// channel. It lives and dies with the session.
type Feed struct {
	mu     sync.Mutex
	items  []Notification
	unread int
	limit  int
	now    func() time.Time
}

const defaultFeedLimit = 100

func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	return &Feed{limit: limit, now: time.Now}
}

// Push prepends a notification and bumps the unread count. The oldest
// entries fall off past the limit.
func (f *Feed) Push(message string) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := Notification{
		ID:      uuid.NewString(),
		Message: message,
		At:      f.now(),
	}
	f.items = append([]Notification{n}, f.items...)
	if len(f.items) > f.limit {
		dropped := f.items[f.limit:]
		for _, d := range dropped {
			if !d.Read {
				f.unread--
			}
		}
		f.items = f.items[:f.limit]
	}
	f.unread++
	return n
}

// Items returns a copy of the feed, newest first.
func (f *Feed) Items() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// MarkAllRead marks every entry read.
func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].Read = true
	}
	f.unread = 0
}

// Clear empties the feed. Part of the logout path.
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
	f.unread = 0
}
