package settings

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/logging"
)

// DefaultKey is the etcd key holding the forecast configuration
const DefaultKey = "/demandcast/config/forecast"

// EtcdStore persists the configuration as one JSON document in etcd
type EtcdStore struct {
	client *clientv3.Client
	key    string
	writer string // Identifies this instance in saved documents
	logger *logging.Logger
}

// NewEtcdStore connects to etcd
func NewEtcdStore(cfg config.SettingsConfig) (*EtcdStore, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}

	hostname, _ := os.Hostname()
	return &EtcdStore{
		client: client,
		key:    key,
		writer: hostname + "/" + uuid.New().String(),
		logger: logging.Global(),
	}, nil
}

// Load reads the configuration document
func (s *EtcdStore) Load(ctx context.Context) (forecast.Config, bool, error) {
	resp, err := s.client.Get(ctx, s.key)
	if err != nil {
		return forecast.Config{}, false, fmt.Errorf("failed to get forecast settings from etcd: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return forecast.Config{}, false, nil
	}

	doc, err := decodeDocument(resp.Kvs[0].Value)
	if err != nil {
		return forecast.Config{}, false, err
	}
	return doc.Config, true, nil
}

// Save writes the configuration document
func (s *EtcdStore) Save(ctx context.Context, cfg forecast.Config) error {
	data, err := encodeDocument(s.writer, cfg)
	if err != nil {
		return err
	}

	if _, err := s.client.Put(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to store forecast settings in etcd: %w", err)
	}
	return nil
}

// Watch delivers configurations saved by other instances. Documents written
// by this store and invalid documents are skipped.
func (s *EtcdStore) Watch(ctx context.Context, fn func(forecast.Config)) error {
	for resp := range s.client.Watch(ctx, s.key) {
		if err := resp.Err(); err != nil {
			return fmt.Errorf("forecast settings watch failed: %w", err)
		}
		for _, ev := range resp.Events {
			if ev.Type != clientv3.EventTypePut {
				continue
			}
			doc, err := decodeDocument(ev.Kv.Value)
			if err != nil {
				s.logger.Warn("Ignoring invalid forecast settings", "key", s.key, "error", err)
				continue
			}
			if doc.Writer == s.writer {
				continue
			}
			fn(doc.Config)
		}
	}
	return ctx.Err()
}

// Close closes the etcd client
func (s *EtcdStore) Close() error {
	return s.client.Close()
}
