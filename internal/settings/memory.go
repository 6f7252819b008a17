package settings

import (
	"context"
	"sync"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
)

// MemoryStore keeps the configuration in process
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the saved configuration
func (s *MemoryStore) Load(ctx context.Context) (forecast.Config, bool, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		return forecast.Config{}, false, nil
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return forecast.Config{}, false, err
	}
	return doc.Config, true, nil
}

// Save stores an encoded copy of cfg
func (s *MemoryStore) Save(ctx context.Context, cfg forecast.Config) error {
	data, err := encodeDocument("memory", cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
