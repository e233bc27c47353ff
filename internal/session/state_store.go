package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StateStore keeps runner snapshots between requests. Load returns nil, nil
// for an unknown or expired session.
type StateStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, sessionID uuid.UUID) (*Snapshot, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

type MemoryStateStore struct {
	mu    sync.RWMutex
	snaps map[uuid.UUID]Snapshot
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{snaps: make(map[uuid.UUID]Snapshot)}
}

func (m *MemoryStateStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.Session.ID] = snap
	return nil
}

func (m *MemoryStateStore) Load(_ context.Context, sessionID uuid.UUID) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[sessionID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *MemoryStateStore) Delete(_ context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, sessionID)
	return nil
}

// RedisStateStore stores snapshots as JSON under prefix+session id. The TTL
// only drops the cached runner; the session row stays in progress.
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStateStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

func (s *RedisStateStore) Save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(snap.Session.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Load(ctx context.Context, sessionID uuid.UUID) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return &snap, nil
}

func (s *RedisStateStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
