package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// NoopCache behaves like an empty redis: every lookup is a miss.
type NoopCache struct{}

func (c *NoopCache) Get(ctx context.Context, key string, dest any) error {
	return redis.Nil
}

func (c *NoopCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	return nil
}

func (c *NoopCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (c *NoopCache) Close() error {
	return nil
}

// TrackingCache is a JSON-backed in-memory cache that counts calls so
// tests can observe hit, set and invalidation behavior. Safe for the
// background cache writes the handlers issue.
type TrackingCache struct {
	mu          sync.Mutex
	getCalls    int
	setCalls    int
	deleteCalls int
	data        map[string]cacheEntry
}

type cacheEntry struct {
	payload []byte
	expiry  time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data: make(map[string]cacheEntry),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	entry, exists := c.data[key]
	if !exists || time.Now().After(entry.expiry) {
		return redis.Nil
	}
	return json.Unmarshal(entry.payload, dest)
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setCalls++
	c.data[key] = cacheEntry{payload: payload, expiry: time.Now().Add(exp)}
	return nil
}

func (c *TrackingCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deleteCalls++
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *TrackingCache) Close() error {
	return nil
}

func (c *TrackingCache) GetCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls
}

func (c *TrackingCache) SetCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCalls
}

func (c *TrackingCache) DeleteCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteCalls
}
