package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// User is the signed in account as far as the web app knows it
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the one record per browser session. Token and user are only
// written by Manager.Login and cleared by Manager.Logout.
type Session struct {
	ID        string                     `json:"id"`
	Token     string                     `json:"token,omitempty"`
	User      *User                      `json:"user,omitempty"`
	State     map[string]json.RawMessage `json:"state,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
	ExpiresAt time.Time                  `json:"expiresAt"`
}

func (s *Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Username is empty for anonymous sessions
func (s *Session) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

// Load decodes the state stored under key into dest. It reports false when
// nothing is stored.
func (s *Session) Load(key string, dest interface{}) (bool, error) {
	raw, ok := s.State[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode session state %q: %w", key, err)
	}
	return true, nil
}

// Put replaces the state under key; a nil value removes it
func (s *Session) Put(key string, value interface{}) error {
	if value == nil {
		delete(s.State, key)
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session state %q: %w", key, err)
	}
	if s.State == nil {
		s.State = make(map[string]json.RawMessage)
	}
	s.State[key] = raw
	return nil
}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrLocked          = errors.New("operation already in progress")
	ErrMalformedToken  = errors.New("malformed token")
)
