package auth

import (
	"errors"

	"gamespace/internal/session"
)

// userRecord is the account as the REST API sends it
type userRecord struct {
	ID       string `json:"id"`
	MongoID  string `json:"_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

func (u *userRecord) adapt() *session.User {
	if u == nil {
		return nil
	}
	user := &session.User{ID: u.ID, Username: u.Username, Email: u.Email}
	if user.ID == "" {
		user.ID = u.MongoID
	}
	if user.Username == "" {
		user.Username = u.Name
	}
	if user.Username == "" {
		return nil
	}
	return user
}

// authRecord is the body of a successful login or signup
type authRecord struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"accessToken"`
	User        *userRecord `json:"user"`
}

func (a authRecord) token() string {
	if a.Token != "" {
		return a.Token
	}
	return a.AccessToken
}

var (
	ErrNoToken = errors.New("auth response carried no token")
)
