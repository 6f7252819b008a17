package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/logging"
)

// DefaultSubjectPrefix is the stream forecasts are published on
const DefaultSubjectPrefix = "demandcast.forecasts"

// ForecastEvent is the payload delivered to planning consumers
type ForecastEvent struct {
	EventID     string                   `json:"event_id"`
	ProductID   string                   `json:"product_id"`
	PublishedAt time.Time                `json:"published_at"`
	Forecast    *forecast.DemandForecast `json:"forecast"`
}

// DecodeForecastEvent parses a published event
func DecodeForecastEvent(data []byte) (ForecastEvent, error) {
	var event ForecastEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("failed to decode forecast event: %w", err)
	}
	if event.Forecast == nil {
		return event, fmt.Errorf("forecast event %s has no forecast", event.EventID)
	}
	return event, nil
}

// ForecastPublisher publishes forecasts as events keyed by product id
type ForecastPublisher struct {
	publisher Publisher
	prefix    string
	logger    *logging.Logger
	now       func() time.Time
}

// NewForecastPublisher wraps publisher. An empty prefix uses DefaultSubjectPrefix.
func NewForecastPublisher(publisher Publisher, prefix string, logger *logging.Logger) *ForecastPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &ForecastPublisher{
		publisher: publisher,
		prefix:    prefix,
		logger:    logger,
		now:       time.Now,
	}
}

// Subject returns the subject a product's forecasts are published on
func (p *ForecastPublisher) Subject(productID string) string {
	return JoinSubject(p.prefix, productID)
}

// Pattern returns the subscription pattern covering every product
func (p *ForecastPublisher) Pattern() string {
	return p.prefix + "." + wildcard
}

func (p *ForecastPublisher) encode(f *forecast.DemandForecast) ([]byte, error) {
	event := ForecastEvent{
		EventID:     uuid.New().String(),
		ProductID:   f.ProductID,
		PublishedAt: p.now().UTC(),
		Forecast:    f,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode forecast event for %s: %w", f.ProductID, err)
	}
	return data, nil
}

// Publish sends one forecast
func (p *ForecastPublisher) Publish(ctx context.Context, f *forecast.DemandForecast) error {
	data, err := p.encode(f)
	if err != nil {
		return err
	}
	if err := p.publisher.Publish(ctx, p.Subject(f.ProductID), data); err != nil {
		return err
	}

	p.logger.Debug("Forecast published",
		"product_id", f.ProductID,
		"subject", p.Subject(f.ProductID),
		"bytes", len(data))
	return nil
}

// PublishAll sends a bulk run's forecasts in product id order and returns how
// many were accepted by the backend.
func (p *ForecastPublisher) PublishAll(ctx context.Context, forecasts map[string]*forecast.DemandForecast) (int, error) {
	ids := make([]string, 0, len(forecasts))
	for id, f := range forecasts {
		if f != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	messages := make([]Message, 0, len(ids))
	for _, id := range ids {
		data, err := p.encode(forecasts[id])
		if err != nil {
			return 0, err
		}
		messages = append(messages, Message{Subject: p.Subject(id), Data: data})
	}
	if len(messages) == 0 {
		return 0, nil
	}

	published, err := p.publisher.PublishBatch(ctx, messages)
	if published < len(messages) {
		p.logger.Warn("Some forecasts were not published",
			"requested", len(messages),
			"published", published)
	}
	return published, err
}

// Close closes the underlying publisher
func (p *ForecastPublisher) Close() error {
	return p.publisher.Close()
}
