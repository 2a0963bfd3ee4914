package models

// Session is the authenticated identity of this client instance: the user
// reference returned at login plus the bearer token for subsequent calls.
type Session struct {
	User  UserRef `json:"user"`
	Token string  `json:"token"`
}

// Authenticated reports whether the session carries both a token and a
// usable user identity. Absence of either means Anonymous.
func (s Session) Authenticated() bool {
	return s.Token != "" && !s.User.IsZero()
}
