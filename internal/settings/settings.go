// Package settings persists the forecast configuration so tuned coefficients
// and seasonal factors survive restarts and are shared between instances.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/utils"
)

// Store loads and saves the forecast configuration
type Store interface {
	// Load returns the persisted configuration; ok is false when none was saved
	Load(ctx context.Context) (cfg forecast.Config, ok bool, err error)

	// Save persists cfg, replacing the previous configuration
	Save(ctx context.Context, cfg forecast.Config) error

	// Close releases the backend
	Close() error
}

// Watcher is implemented by stores that notify about changes made elsewhere
type Watcher interface {
	// Watch calls fn with every configuration saved by another writer until
	// ctx is cancelled
	Watch(ctx context.Context, fn func(forecast.Config)) error
}

// document is the persisted envelope
type document struct {
	Writer    string          `json:"writer"`
	UpdatedAt time.Time       `json:"updated_at"`
	Config    forecast.Config `json:"config"`
}

func encodeDocument(writer string, cfg forecast.Config) ([]byte, error) {
	data, err := json.Marshal(document{
		Writer:    writer,
		UpdatedAt: time.Now().UTC(),
		Config:    cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal forecast settings: %w", err)
	}
	return data, nil
}

func decodeDocument(data []byte) (document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to unmarshal forecast settings: %w", err)
	}
	if err := doc.Config.Validate(); err != nil {
		return doc, fmt.Errorf("persisted forecast settings are invalid: %w", err)
	}
	return doc, nil
}

// New creates a settings store based on configuration.
// Default is the in-memory store if type is not specified.
func New(cfg config.SettingsConfig) (Store, error) {
	switch utils.SettingsType(strings.ToLower(cfg.Type)) {
	case "", utils.SettingsTypeMemory:
		return NewMemoryStore(), nil

	case utils.SettingsTypeEtcd:
		return NewEtcdStore(cfg)

	default:
		return nil, fmt.Errorf("unsupported settings type: %s (supported: memory, etcd)", cfg.Type)
	}
}
