package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringerID struct{ s string }

func (s stringerID) String() string { return s.s }

func TestSameID(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"identical strings", "507f1f77", "507f1f77", true},
		{"string vs stringer", "507f", stringerID{"507f"}, true},
		{"quoted vs bare", `"abc"`, "abc", true},
		{"both quoted", `"abc"`, `"abc"`, true},
		{"different", "a", "b", false},
		{"nil never equal", nil, nil, false},
		{"nil vs value", nil, "a", false},
		{"empty never equal", "", "", false},
		{"number vs string", 42, "42", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SameID(tc.a, tc.b))
		})
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"plain string", `"507f"`, "507f"},
		{"doubly quoted", `"\"507f\""`, "507f"},
		{"number", `42`, "42"},
		{"object with _id", `{"_id":"abc","name":"x"}`, "abc"},
		{"object with id", `{"id":"def"}`, "def"},
		{"object without id keys", `{"name":"x"}`, ""},
		{"null", `null`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tc.in), &id))
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestID_Equal_MissingNeverEqual(t *testing.T) {
	var a, b ID
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal("x"))
	assert.True(t, ID("x").Equal("x"))
}

func TestUserRef_UnmarshalJSON(t *testing.T) {
	t.Run("object form", func(t *testing.T) {
		var u UserRef
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"u1","name":"Ann","email":"a@x.io"}`), &u))
		assert.Equal(t, ID("u1"), u.ID)
		assert.Equal(t, "Ann", u.Name)
	})

	t.Run("bare string form", func(t *testing.T) {
		var u UserRef
		require.NoError(t, json.Unmarshal([]byte(`"u1"`), &u))
		assert.Equal(t, ID("u1"), u.ID)
		assert.Equal(t, ID("u1"), u.AltID)
	})

	t.Run("alternate id key only", func(t *testing.T) {
		var u UserRef
		require.NoError(t, json.Unmarshal([]byte(`{"id":"u2"}`), &u))
		assert.Equal(t, ID("u2"), u.Key())
	})
}

func TestUserRef_Normalized(t *testing.T) {
	u := UserRef{AltID: "u9", Name: "Bo"}.Normalized()
	assert.Equal(t, ID("u9"), u.ID)
	assert.Equal(t, ID("u9"), u.AltID)
}

func TestUserRef_Matches(t *testing.T) {
	u := UserRef{ID: "u1"}
	assert.True(t, u.Matches("u1"))
	assert.True(t, u.Matches(`"u1"`))
	assert.False(t, u.Matches("u2"))
	assert.False(t, UserRef{}.Matches(""))
}
