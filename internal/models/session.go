package models

import "time"

// Session is a server-side session row referenced by a signed cookie.
// UserID == 0 means the session is anonymous.
type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether a user is bound to this session.
func (s Session) Authenticated() bool {
	return s.UserID != 0
}
