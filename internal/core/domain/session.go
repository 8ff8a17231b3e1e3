package domain

import "time"

// Session is the server-side state of one browser session. It holds at most
// one Principal.
type Session struct {
	ID        string     `json:"id"`
	User      *Principal `json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// SetUser attaches p as the session principal.
func (s *Session) SetUser(p Principal) {
	s.User = &p
}

// Clear removes the principal. Calling it on an empty session is a no-op.
func (s *Session) Clear() {
	s.User = nil
}

// HasRole reports whether the session carries a principal with role r.
// A nil session or a session without a principal never has a role.
func (s *Session) HasRole(r Role) bool {
	if s == nil || s.User == nil {
		return false
	}
	return s.User.Role == r
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
