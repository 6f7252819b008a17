package queue

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/logging"
)

func testForecast(productID string, quantities ...int) *forecast.DemandForecast {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]forecast.ForecastPoint, len(quantities))
	for i, q := range quantities {
		points[i] = forecast.ForecastPoint{
			Date:             start.AddDate(0, 0, i),
			ExpectedQuantity: q,
			LowerBound:       q - 1,
			UpperBound:       q + 1,
		}
	}
	return &forecast.DemandForecast{
		ProductID:       productID,
		ForecastPoints:  points,
		ConfidenceScore: 0.75,
		GeneratedAt:     start,
	}
}

func newTestPublisher(q Publisher) *ForecastPublisher {
	return NewForecastPublisher(q, "", logging.NewWithWriter(io.Discard, zerolog.DebugLevel))
}

func TestForecastPublisher_Subject(t *testing.T) {
	p := newTestPublisher(NewMemoryQueue())
	assert.Equal(t, "demandcast.forecasts.BOLO-001", p.Subject("BOLO-001"))
	assert.Equal(t, "demandcast.forecasts.pao_frances", p.Subject("pao.frances"))
	assert.Equal(t, "demandcast.forecasts.>", p.Pattern())

	custom := NewForecastPublisher(NewMemoryQueue(), "bakery.demand", nil)
	assert.Equal(t, "bakery.demand.X", custom.Subject("X"))
}

func TestForecastPublisher_Publish(t *testing.T) {
	q := NewMemoryQueue()
	p := newTestPublisher(q)
	defer func() { _ = p.Close() }()

	events := make(chan ForecastEvent, 1)
	require.NoError(t, q.Subscribe(p.Pattern(), func(subject string, data []byte) error {
		event, err := DecodeForecastEvent(data)
		if err != nil {
			return err
		}
		events <- event
		return nil
	}))

	require.NoError(t, p.Publish(context.Background(), testForecast("BOLO-001", 10, 12)))

	select {
	case event := <-events:
		assert.NotEmpty(t, event.EventID)
		assert.Equal(t, "BOLO-001", event.ProductID)
		require.NotNil(t, event.Forecast)
		assert.Len(t, event.Forecast.ForecastPoints, 2)
		assert.Equal(t, 12, event.Forecast.ForecastPoints[1].ExpectedQuantity)
		assert.False(t, event.PublishedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestForecastPublisher_PublishAll(t *testing.T) {
	q := NewMemoryQueue()
	p := newTestPublisher(q)
	defer func() { _ = p.Close() }()

	n, err := p.PublishAll(context.Background(), map[string]*forecast.DemandForecast{
		"A": testForecast("A", 1),
		"B": testForecast("B", 2),
		"C": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, q.PendingCount("demandcast.forecasts.A"))
	assert.Equal(t, 1, q.PendingCount("demandcast.forecasts.B"))

	n, err = p.PublishAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDecodeForecastEvent_Invalid(t *testing.T) {
	_, err := DecodeForecastEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeForecastEvent([]byte(`{"event_id":"e1","product_id":"A"}`))
	assert.Error(t, err)
}

func TestNewForecastPublisherFromConfig(t *testing.T) {
	p, err := NewForecastPublisherFromConfig(config.QueueConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewForecastPublisherFromConfig(config.QueueConfig{
		Enabled:       true,
		Type:          "memory",
		SubjectPrefix: "test.forecasts",
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "test.forecasts.A", p.Subject("A"))
	assert.NoError(t, p.Close())
}
