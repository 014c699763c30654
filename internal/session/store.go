package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gamespace/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// Store persists sessions and the short per-session operation locks
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	// Lock takes the named lock for ttl; ok is false when someone holds it
	Lock(ctx context.Context, id, op string, ttl time.Duration) (ok bool, err error)
	Unlock(ctx context.Context, id, op string) error
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (r *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, constants.BuildSessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get error: %w", err)
	}
	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session unmarshal error: %w", err)
	}
	return &s, nil
}

func (r *redisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session marshal error: %w", err)
	}
	if err := r.client.Set(ctx, constants.BuildSessionKey(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("session set error: %w", err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, constants.BuildSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("session delete error: %w", err)
	}
	return nil
}

func (r *redisStore) Lock(ctx context.Context, id, op string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, constants.BuildSessionLockKey(id, op), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("session lock error: %w", err)
	}
	return ok, nil
}

func (r *redisStore) Unlock(ctx context.Context, id, op string) error {
	return r.client.Del(ctx, constants.BuildSessionLockKey(id, op)).Err()
}

// memoryStore backs sessions when Redis is not configured
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	locks    map[string]time.Time
	now      func() time.Time
}

type memorySession struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]memorySession),
		locks:    make(map[string]time.Time),
		now:      time.Now,
	}
}

func (m *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if ok && !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.sessions, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var s Session
	if err := json.Unmarshal(entry.data, &s); err != nil {
		return nil, fmt.Errorf("session unmarshal error: %w", err)
	}
	return &s, nil
}

func (m *memoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session marshal error: %w", err)
	}
	entry := memorySession{data: data}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.sessions[s.ID] = entry
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Lock(_ context.Context, id, op string, ttl time.Duration) (bool, error) {
	key := constants.BuildSessionLockKey(id, op)
	m.mu.Lock()
	defer m.mu.Unlock()
	if until, held := m.locks[key]; held && m.now().Before(until) {
		return false, nil
	}
	m.locks[key] = m.now().Add(ttl)
	return true, nil
}

func (m *memoryStore) Unlock(_ context.Context, id, op string) error {
	m.mu.Lock()
	delete(m.locks, constants.BuildSessionLockKey(id, op))
	m.mu.Unlock()
	return nil
}
