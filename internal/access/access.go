// Package access answers "may this user edit this note" from the several
// partially redundant signals a note payload carries. The backend remains
// the actual authority; everything here only gates local UI affordances.
package access

import "github.com/notewire/notewire/internal/models"

// CanEdit evaluates the edit-permission cascade, first match wins:
//
//  1. the server explicitly granted write permission for this viewer;
//  2. the server explicitly flagged the note as owned by this viewer;
//  3. the user is the note's creator (both identifier fields tried on
//     each side, since payloads disagree about which one is populated);
//  4. the user appears in the collaborator list with write permission.
func CanEdit(note models.Note, user models.UserRef) bool {
	if note.ID.IsZero() || user.IsZero() {
		return false
	}

	if note.UserPermission == models.PermissionWrite {
		return true
	}

	if note.OwnedByCurrentUser != nil && *note.OwnedByCurrentUser {
		return true
	}

	if IsOwner(note, user) {
		return true
	}

	for _, c := range note.Collaborators {
		if c.Permission != models.PermissionWrite {
			continue
		}
		if models.SameUser(c.User, user) {
			return true
		}
	}

	return false
}

// IsOwner reports whether the user is the note's creator, by identifier
// comparison only. It ignores the server-asserted flags and any permission
// level, and is what gates the share action.
func IsOwner(note models.Note, user models.UserRef) bool {
	if note.CreatedBy == nil {
		return false
	}
	return models.SameUser(*note.CreatedBy, user)
}

// OwnershipMismatch detects the inconsistency where the user is the creator
// yet the cascade denies editing. It is not silently repaired: callers
// surface it and offer a re-fetch or the manual override.
func OwnershipMismatch(note models.Note, user models.UserRef) bool {
	return IsOwner(note, user) && !CanEdit(note, user)
}

// Effective combines the cascade with the local override toggle. The
// override only helps a confirmed owner; it never manufactures permission
// for non-owners, and it changes nothing on the backend; a rejected write
// still surfaces as an error.
func Effective(note models.Note, user models.UserRef, override bool) bool {
	return CanEdit(note, user) || (override && IsOwner(note, user))
}
