package store

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheRepository is a string key/value cache.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// RedisCache stores entries in Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr. A zero ttl keeps entries forever.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: rdb, ttl: ttl}
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Close releases the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is an in-process CacheRepository used when Redis is not configured.
type MemoryCache struct {
	mu      sync.RWMutex
	data    map[string]memoryEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewMemoryCache creates a cache whose entries live for ttl (zero = forever).
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		data:    make(map[string]memoryEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && m.nowFunc().After(e.expires) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	e := memoryEntry{value: value}
	if m.ttl > 0 {
		e.expires = m.nowFunc().Add(m.ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}
