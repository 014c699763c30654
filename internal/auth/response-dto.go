package auth

import "gamespace/internal/session"

// Result is what a successful login or signup yields
type Result struct {
	Token string        `json:"-"`
	User  *session.User `json:"user"`
}

// MeResponse reports the session's user
type MeResponse struct {
	User            *session.User `json:"user"`
	IsAuthenticated bool          `json:"isAuthenticated"`
}
