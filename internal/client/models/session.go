package models

// Session is the persisted authentication state. A usable session always has
// both a token and a user; see Valid.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Valid reports whether s carries a non-empty token together with a user
// that has an id.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User != nil && s.User.ID != ""
}
