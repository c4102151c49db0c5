package database

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryCache is a process-local CacheService. It backs tests and
// single-process deployments; it does not survive restarts and does not
// scale horizontally, which is acceptable only because the workflow code is
// written against CacheService and a Redis-backed store drops in unchanged.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem

	// Now is swappable so expiry behaviour is testable without sleeping.
	Now func() time.Time
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		Now:   time.Now,
	}
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = m.Now().Add(expiration)
	}

	m.mu.Lock()
	m.items[key] = memoryItem{data: data, expiresAt: expiresAt}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && m.Now().After(item.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return ErrCacheMiss
	}
	return json.Unmarshal(item.data, dest)
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.items, key)
	}
	m.mu.Unlock()
	return nil
}

// RawClient returns nil: stream publishing is skipped when no Redis client
// is attached.
func (m *MemoryCache) RawClient() *redis.Client {
	return nil
}

var _ CacheService = (*MemoryCache)(nil)
