// Package models defines the wire-level types shared by the API client,
// the realtime channel, and the note store.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque entity identifier in canonical string form.
//
// The backend is not consistent about how it serializes identifiers: the
// same id can arrive as a bare string, a quoted string literal, a number,
// or an object carrying the string under "_id" or "id". ID absorbs that
// inconsistency once, at decode time, so the rest of the client can compare
// identifiers with plain equality.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

// Equal reports whether two ids denote the same entity. A missing id is
// never equal to anything, including another missing id.
func (id ID) Equal(other ID) bool {
	return !id.IsZero() && !other.IsZero() && id == other
}

// ParseID normalizes an identifier of unknown runtime shape. Strings and
// fmt.Stringer values have one layer of JSON quoting stripped; numbers use
// their decimal form; nil yields the zero ID.
func ParseID(v any) ID {
	switch value := v.(type) {
	case nil:
		return ""
	case ID:
		return value
	case string:
		return ID(unquoteOnce(value))
	case fmt.Stringer:
		return ID(unquoteOnce(value.String()))
	case int:
		return ID(strconv.Itoa(value))
	case int64:
		return ID(strconv.FormatInt(value, 10))
	case float64:
		return ID(strconv.FormatFloat(value, 'f', -1, 64))
	default:
		return ID(unquoteOnce(fmt.Sprint(value)))
	}
}

// SameID normalizes both sides and compares them. Either side missing means
// not equal, even when both are missing.
func SameID(a, b any) bool {
	return ParseID(a).Equal(ParseID(b))
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a string (with one layer of extra quoting stripped),
// a number, null, or an object carrying the id under "_id" or "id".
func (id *ID) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		*id = ""
	case map[string]any:
		if inner, ok := value["_id"]; ok {
			*id = ParseID(inner)
		} else if inner, ok := value["id"]; ok {
			*id = ParseID(inner)
		} else {
			*id = ""
		}
	default:
		*id = ParseID(value)
	}
	return nil
}

// unquoteOnce strips a single layer of surrounding double quotes, if present.
func unquoteOnce(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
