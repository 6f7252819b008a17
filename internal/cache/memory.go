package cache

import (
	"context"
	"sync"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
)

type entry struct {
	payload   []byte
	expiresAt time.Time // Zero never expires
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is an in-process TTL cache of encoded forecasts
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	codec   codec
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// newMemoryCache creates a memory cache and starts its expiry sweep
func newMemoryCache(ttl time.Duration, c codec) *MemoryCache {
	m := &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		codec:   c,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go m.sweep()

	return m
}

// Get returns the cached forecast for productID
func (m *MemoryCache) Get(ctx context.Context, productID string) (*forecast.DemandForecast, bool, error) {
	m.mu.RLock()
	e, exists := m.entries[productID]
	m.mu.RUnlock()

	if !exists || e.expired(m.now()) {
		return nil, false, nil
	}

	f, err := m.codec.decode(e.payload)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

// Put stores f, replacing any previous forecast for the product
func (m *MemoryCache) Put(ctx context.Context, f *forecast.DemandForecast) error {
	payload, err := m.codec.encode(f)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{payload: payload}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[f.ProductID] = e
	return nil
}

// Delete removes a product's forecast
func (m *MemoryCache) Delete(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, productID)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the expiry sweep
func (m *MemoryCache) Close() error {
	m.once.Do(func() { close(m.stopCh) })
	return nil
}

// sweep periodically removes expired entries
func (m *MemoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stopCh:
			return
		}
	}
}

func (m *MemoryCache) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, id)
		}
	}
}
