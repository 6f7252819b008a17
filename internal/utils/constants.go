package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// BulkRequestTimeout bounds a bulk forecast run started from HTTP
	BulkRequestTimeout = 2 * time.Minute

	// ShutdownTimeout is the grace period for in-flight requests on shutdown
	ShutdownTimeout = 10 * time.Second
)

// Collaborator Timeouts
const (
	// PublishTimeout is the timeout for publishing forecasts to the queue
	PublishTimeout = 5 * time.Second

	// CacheTimeout is the timeout for a single cache operation
	CacheTimeout = 2 * time.Second

	// SettingsTimeout is the timeout for loading or saving persisted settings
	SettingsTimeout = 5 * time.Second
)

// =============================================================================
// Backend Types
// =============================================================================

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)

// SettingsType represents where forecast settings are persisted
type SettingsType string

const (
	// SettingsTypeMemory keeps settings in process (default)
	SettingsTypeMemory SettingsType = "memory"

	// SettingsTypeEtcd persists settings in etcd
	SettingsTypeEtcd SettingsType = "etcd"
)
