package realtime

import (
	"encoding/json"
	"time"

	"github.com/notewire/notewire/internal/models"
)

// Envelope is the wire frame for every message on the push channel:
// a named event plus its JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client-emitted events.
const (
	eventJoinNote   = "join-note"
	eventLeaveNote  = "leave-note"
	eventNoteUpdate = "note-update"
)

// Server-emitted events.
const (
	eventNoteUpdated  = "note-updated"
	eventNotification = "notification"
)

// UpdatePayload is the low-latency edit broadcast sent while typing.
type UpdatePayload struct {
	NoteID    models.ID `json:"noteId"`
	Content   string    `json:"content"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

type notificationPayload struct {
	Message string `json:"message"`
}

func makeEnvelope(event string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: raw}, nil
}
