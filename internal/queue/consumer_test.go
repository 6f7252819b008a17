package queue

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/demandcast/internal/logging"
)

func TestForecastConsumer_ReceivesPublished(t *testing.T) {
	q := NewMemoryQueue()
	logger := logging.NewWithWriter(io.Discard, zerolog.DebugLevel)
	publisher := newTestPublisher(q)
	consumer := NewForecastConsumer(q, "", logger)
	assert.Equal(t, publisher.Pattern(), consumer.Pattern())

	var mu sync.Mutex
	received := make(map[string]ForecastEvent)
	require.NoError(t, consumer.Start(func(event ForecastEvent) error {
		mu.Lock()
		defer mu.Unlock()
		received[event.ProductID] = event
		return nil
	}))

	require.NoError(t, publisher.Publish(context.Background(), testForecast("BOLO-001", 10, 12, 14)))
	require.NoError(t, publisher.Publish(context.Background(), testForecast("PAO-001", 50, 55)))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	})

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, received["BOLO-001"].EventID)
	assert.Equal(t, []float64{10, 12, 14}, received["BOLO-001"].Forecast.ExpectedQuantities())
	assert.Len(t, received["PAO-001"].Forecast.ForecastPoints, 2)
}

func TestForecastConsumer_SkipsInvalidPayloads(t *testing.T) {
	q := NewMemoryQueue()
	consumer := NewForecastConsumer(q, "bakery.demand", logging.NewWithWriter(io.Discard, zerolog.DebugLevel))

	var mu sync.Mutex
	var ids []string
	require.NoError(t, consumer.Start(func(event ForecastEvent) error {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, event.ProductID)
		return nil
	}))

	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, "bakery.demand.X", []byte("not json")))
	require.NoError(t, q.Publish(ctx, "bakery.demand.Y", []byte(`{"event_id":"e1","product_id":"Y"}`)))

	publisher := NewForecastPublisher(q, "bakery.demand", nil)
	require.NoError(t, publisher.Publish(ctx, testForecast("Z", 1)))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) == 1
	})
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Z"}, ids)
}

func TestForecastConsumer_Close(t *testing.T) {
	q := NewMemoryQueue()
	consumer := NewForecastConsumer(q, "", nil)
	require.NoError(t, consumer.Start(func(ForecastEvent) error { return nil }))
	require.NoError(t, consumer.Close())

	assert.Error(t, consumer.Start(func(ForecastEvent) error { return nil }))
}
