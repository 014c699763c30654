package auth

import (
	"context"
	"fmt"
	"net/url"

	"gamespace/internal/session"
)

// Service wraps the API's auth endpoints
type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*Result, error)
	Signup(ctx context.Context, req *SignupRequest) (*Result, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*session.User, error)
}

// Client is the slice of apiclient.Client the service uses
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest interface{}) error
	Post(ctx context.Context, path string, body, dest interface{}) error
}

type service struct {
	client Client
}

func NewService(client Client) Service {
	return &service{client: client}
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*Result, error) {
	return s.authenticate(ctx, "/auth/login", req)
}

func (s *service) Signup(ctx context.Context, req *SignupRequest) (*Result, error) {
	return s.authenticate(ctx, "/auth/signup", req)
}

func (s *service) authenticate(ctx context.Context, path string, body interface{}) (*Result, error) {
	var rec authRecord
	if err := s.client.Post(ctx, path, body, &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rec.token() == "" {
		return nil, ErrNoToken
	}
	// a nil user is derived from the token claims by the session manager
	return &Result{Token: rec.token(), User: rec.User.adapt()}, nil
}

func (s *service) Logout(ctx context.Context) error {
	if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("/auth/logout: %w", err)
	}
	return nil
}

func (s *service) Me(ctx context.Context) (*session.User, error) {
	var body struct {
		userRecord
		User *userRecord `json:"user"`
	}
	if err := s.client.Get(ctx, "/auth/me", nil, &body); err != nil {
		return nil, fmt.Errorf("/auth/me: %w", err)
	}
	if body.User != nil {
		return body.User.adapt(), nil
	}
	return body.userRecord.adapt(), nil
}
