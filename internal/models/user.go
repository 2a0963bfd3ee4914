package models

import (
	"bytes"
	"encoding/json"
)

// UserRef identifies a user together with display fields. The identifier may
// be populated under either the primary ("_id") or alternate ("id") key, and
// some payloads collapse the whole reference to a bare id.
type UserRef struct {
	ID    ID     `json:"_id,omitempty"`
	AltID ID     `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Key returns the primary id, falling back to the alternate one.
func (u UserRef) Key() ID {
	if !u.ID.IsZero() {
		return u.ID
	}
	return u.AltID
}

func (u UserRef) IsZero() bool {
	return u.Key().IsZero()
}

// Matches reports whether v (an id of any supported shape) denotes this
// user, checked against both identifier fields.
func (u UserRef) Matches(v any) bool {
	return SameID(u.ID, v) || SameID(u.AltID, v)
}

// SameUser reports whether two references denote the same user, trying both
// identifier fields on each side.
func SameUser(a, b UserRef) bool {
	return a.Matches(b.ID) || a.Matches(b.AltID)
}

// Normalized returns a copy with both identifier fields populated, mirroring
// whichever one is present. Login responses are stored in this form so later
// comparisons can rely on either field.
func (u UserRef) Normalized() UserRef {
	out := u
	if out.ID.IsZero() {
		out.ID = out.AltID
	}
	if out.AltID.IsZero() {
		out.AltID = out.ID
	}
	return out
}

type userRefAlias UserRef

// UnmarshalJSON accepts either a full object or a bare identifier
// (string or number), which populates both id fields.
func (u *UserRef) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var id ID
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*u = UserRef{ID: id, AltID: id}
		return nil
	}
	var alias userRefAlias
	if err := json.Unmarshal(b, &alias); err != nil {
		return err
	}
	*u = UserRef(alias)
	return nil
}
