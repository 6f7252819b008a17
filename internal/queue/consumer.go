package queue

import (
	"fmt"

	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/logging"
)

// ForecastHandler processes one decoded forecast event
type ForecastHandler func(event ForecastEvent) error

// ForecastConsumer delivers published forecasts to planning collaborators
type ForecastConsumer struct {
	subscriber Subscriber
	pattern    string
	logger     *logging.Logger
}

// NewForecastConsumer wraps subscriber. An empty prefix uses DefaultSubjectPrefix.
func NewForecastConsumer(subscriber Subscriber, prefix string, logger *logging.Logger) *ForecastConsumer {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &ForecastConsumer{
		subscriber: subscriber,
		pattern:    prefix + "." + wildcard,
		logger:     logger,
	}
}

// NewForecastConsumerFromConfig connects the configured backend for consumption
func NewForecastConsumerFromConfig(cfg config.QueueConfig) (*ForecastConsumer, error) {
	q, err := NewQueue(cfg)
	if err != nil {
		return nil, err
	}
	return NewForecastConsumer(q, cfg.SubjectPrefix, nil), nil
}

// Pattern returns the subject pattern the consumer subscribes to
func (c *ForecastConsumer) Pattern() string {
	return c.pattern
}

// Start subscribes handler to every product's forecasts. Undecodable
// payloads are logged and acknowledged; handler errors are returned to the
// backend so it can redeliver.
func (c *ForecastConsumer) Start(handler ForecastHandler) error {
	err := c.subscriber.Subscribe(c.pattern, func(subject string, data []byte) error {
		event, err := DecodeForecastEvent(data)
		if err != nil {
			c.logger.Warn("Dropping undecodable forecast event", "subject", subject, "error", err)
			return nil
		}
		if err := handler(event); err != nil {
			c.logger.Error("Forecast handler failed",
				"subject", subject,
				"event_id", event.EventID,
				"product_id", event.ProductID,
				"error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.pattern, err)
	}
	return nil
}

// Close unsubscribes and closes the underlying subscriber
func (c *ForecastConsumer) Close() error {
	_ = c.subscriber.Unsubscribe(c.pattern)
	return c.subscriber.Close()
}
