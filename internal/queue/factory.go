package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/utils"
)

// NewQueue creates a new Queue instance based on configuration
// Default is NATS if type is not specified
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))

	if queueType == "" {
		queueType = utils.QueueTypeNATS
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return newNATSQueue(NATSConfig{
			URL:      cfg.URL,
			Username: cfg.Username,
			Password: cfg.Password,
		})

	case utils.QueueTypeRedis:
		return newRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case utils.QueueTypeKafka:
		return newKafkaQueue(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	case utils.QueueTypeMemory:
		return newMemoryQueue(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}

// NewForecastPublisherFromConfig connects the configured backend and wraps it
// for forecast publication. A disabled queue returns nil without error.
func NewForecastPublisherFromConfig(cfg config.QueueConfig) (*ForecastPublisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	q, err := NewQueue(cfg)
	if err != nil {
		return nil, err
	}
	return NewForecastPublisher(q, cfg.SubjectPrefix, nil), nil
}
