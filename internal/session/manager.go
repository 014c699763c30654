package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamespace/pkg/logger"

	"github.com/google/uuid"
)

type Config struct {
	TTL           time.Duration
	SubmitLockTTL time.Duration
}

// Manager owns the session lifecycle: hydrate on every request, Login and
// Logout as the only writers of token and user.
type Manager struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewManager(store Store, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.SubmitLockTTL <= 0 {
		cfg.SubmitLockTTL = 15 * time.Second
	}
	return &Manager{store: store, cfg: cfg, now: time.Now}
}

// Hydrate loads the session named by the cookie value. Unknown, expired or
// missing ids yield a fresh anonymous session that is persisted on first Save.
func (m *Manager) Hydrate(ctx context.Context, id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		return m.fresh(uuid.NewString())
	}

	s, err := m.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logger.GetDefault().ErrorWithContext(ctx, "Failed to load session", err, map[string]interface{}{
				"session_id": id,
			})
		}
		return m.fresh(id)
	}

	m.checkToken(s)
	return s
}

// Reload replaces s with the stored record. Operations that hold a lock call
// it so they act on what the previous holder saved rather than on the copy
// hydrated when their request started. A session never saved is left as is.
func (m *Manager) Reload(ctx context.Context, s *Session) error {
	stored, err := m.store.Get(ctx, s.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("reload session: %w", err)
	}
	m.checkToken(stored)
	*s = *stored
	return nil
}

func (m *Manager) checkToken(s *Session) {
	if s.Token == "" {
		return
	}
	if _, err := UserFromToken(s.Token, m.now()); err != nil {
		logger.GetDefault().WithSessionID(s.ID).WithError(err).Warn("Discarding unreadable session token")
		s.Token = ""
		s.User = nil
	}
}

// LockTTL is how long a lock taken by TryLock survives an owner that never
// releases it
func (m *Manager) LockTTL() time.Duration {
	return m.cfg.SubmitLockTTL
}

func (m *Manager) fresh(id string) *Session {
	now := m.now()
	return &Session{ID: id, CreatedAt: now, ExpiresAt: now.Add(m.cfg.TTL)}
}

// Save persists s, sliding its expiry forward
func (m *Manager) Save(ctx context.Context, s *Session) error {
	s.ExpiresAt = m.now().Add(m.cfg.TTL)
	return m.store.Save(ctx, s, m.cfg.TTL)
}

// Login stores token and user in s. A nil user is derived from the token.
func (m *Manager) Login(ctx context.Context, s *Session, token string, user *User) error {
	if user == nil {
		u, err := UserFromToken(token, m.now())
		if err != nil {
			return err
		}
		user = u
	}
	s.Token = token
	s.User = user
	return m.Save(ctx, s)
}

// Logout clears s and deletes its record; view state goes with it
func (m *Manager) Logout(ctx context.Context, s *Session) error {
	s.Token = ""
	s.User = nil
	s.State = nil
	return m.store.Delete(ctx, s.ID)
}

// TryLock takes the per-session lock for op. release must be called once
// the operation finished.
func (m *Manager) TryLock(ctx context.Context, s *Session, op string) (release func(), err error) {
	ok, err := m.store.Lock(ctx, s.ID, op, m.cfg.SubmitLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		if err := m.store.Unlock(context.WithoutCancel(ctx), s.ID, op); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "Failed to release session lock", err, map[string]interface{}{
				"session_id": s.ID,
				"operation":  op,
			})
		}
	}, nil
}
