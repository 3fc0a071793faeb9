package model

// Session is the authenticated user's identity plus access token, held on the
// client. It is always replaced as a whole, never mutated in place.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Can reports whether the session user holds p.
func (s *Session) Can(p Permission) bool {
	if s == nil {
		return false
	}
	return s.User.Can(p)
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	return &Session{User: s.User.Clone(), Token: s.Token}
}

// Equal reports whether both sessions hold the same user and token.
func (s *Session) Equal(o *Session) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Token == o.Token && s.User.Equal(o.User)
}
