package models

import "time"

// Permission is the access level a user holds on a note.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

func (p Permission) Valid() bool {
	return p == PermissionRead || p == PermissionWrite
}

// Collaborator is one sharing grant on a note. The backend populates the
// user reference under the "userId" key.
type Collaborator struct {
	User       UserRef    `json:"userId"`
	Permission Permission `json:"permission"`
}

// Note is a collaboratively edited document.
//
// UserPermission and OwnedByCurrentUser are server-asserted hints for the
// requesting viewer; when present they are authoritative and take precedence
// over any client-side comparison. OwnedByCurrentUser is a pointer so that
// "absent" and "false" stay distinguishable.
type Note struct {
	ID                 ID             `json:"_id"`
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	CreatedBy          *UserRef       `json:"createdBy,omitempty"`
	Collaborators      []Collaborator `json:"collaborators,omitempty"`
	LastUpdated        time.Time      `json:"lastUpdated"`
	Archived           bool           `json:"isArchived,omitempty"`
	UserPermission     Permission     `json:"userPermission,omitempty"`
	OwnedByCurrentUser *bool          `json:"isOwnedByCurrentUser,omitempty"`
}

// NotePatch is a partial note update. Pointer fields distinguish "omitted"
// from "set to the zero value", matching how the backend sends sparse
// payloads on the push channel.
type NotePatch struct {
	ID                 ID             `json:"_id"`
	Title              *string        `json:"title,omitempty"`
	Content            *string        `json:"content,omitempty"`
	CreatedBy          *UserRef       `json:"createdBy,omitempty"`
	Collaborators      []Collaborator `json:"collaborators,omitempty"`
	LastUpdated        time.Time      `json:"lastUpdated,omitempty"`
	Archived           *bool          `json:"isArchived,omitempty"`
	UserPermission     Permission     `json:"userPermission,omitempty"`
	OwnedByCurrentUser *bool          `json:"isOwnedByCurrentUser,omitempty"`
}

// PatchOf converts a full note into an equivalent patch.
func PatchOf(n Note) NotePatch {
	title := n.Title
	content := n.Content
	archived := n.Archived
	return NotePatch{
		ID:                 n.ID,
		Title:              &title,
		Content:            &content,
		CreatedBy:          n.CreatedBy,
		Collaborators:      n.Collaborators,
		LastUpdated:        n.LastUpdated,
		Archived:           &archived,
		UserPermission:     n.UserPermission,
		OwnedByCurrentUser: n.OwnedByCurrentUser,
	}
}

// Apply merges the patch into the note. Omitted fields keep their current
// values; in particular, collaborators and creator metadata are never erased
// by a sparse payload.
func (n *Note) Apply(p NotePatch) {
	if !p.ID.IsZero() {
		n.ID = p.ID
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.CreatedBy != nil {
		n.CreatedBy = p.CreatedBy
	}
	if p.Collaborators != nil {
		n.Collaborators = p.Collaborators
	}
	if p.Archived != nil {
		n.Archived = *p.Archived
	}
	if p.UserPermission != "" {
		n.UserPermission = p.UserPermission
	}
	if p.OwnedByCurrentUser != nil {
		n.OwnedByCurrentUser = p.OwnedByCurrentUser
	}
	if !p.LastUpdated.IsZero() {
		n.LastUpdated = p.LastUpdated
	}
}

// Pagination describes one page of a note listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}
