package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/settings"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, zerolog.DebugLevel)
}

// dailySales returns days observations of productID with a weekly pattern
func dailySales(productID string, days int, base int) []forecast.Observation {
	pattern := []int{0, 2, 4, 6, 4, 2, 0}
	out := make([]forecast.Observation, days)
	for i := range out {
		out[i] = forecast.Observation{
			ProductID: productID,
			Date:      testStart.AddDate(0, 0, i),
			Quantity:  base + pattern[i%7],
			UnitPrice: 10,
		}
	}
	return out
}

func testEngine(t *testing.T) *forecast.Engine {
	t.Helper()
	cfg := forecast.DefaultConfig()
	cfg.ForecastHorizonDays = 14
	store, err := forecast.NewStore(cfg)
	require.NoError(t, err)

	now := testStart.AddDate(0, 2, 0)
	return forecast.NewEngine(store,
		forecast.WithLogger(testLogger()),
		forecast.WithClock(func() time.Time { return now }))
}

func requireServiceError(t *testing.T, err error, code string) *ServiceError {
	t.Helper()
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr), "expected ServiceError, got %v", err)
	require.Equal(t, code, svcErr.Code)
	return svcErr
}

// failingSettings is a settings store whose Save always fails
type failingSettings struct{}

func (failingSettings) Load(context.Context) (forecast.Config, bool, error) {
	return forecast.Config{}, false, nil
}

func (failingSettings) Save(context.Context, forecast.Config) error {
	return errors.New("etcd unavailable")
}

func (failingSettings) Close() error { return nil }

// gatedSettings blocks the first Save until release is closed and then fails
// it. Later saves go to the wrapped store.
type gatedSettings struct {
	*settings.MemoryStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedSettings() *gatedSettings {
	return &gatedSettings{
		MemoryStore: settings.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (g *gatedSettings) Save(ctx context.Context, cfg forecast.Config) error {
	first := false
	g.once.Do(func() { first = true })
	if !first {
		return g.MemoryStore.Save(ctx, cfg)
	}
	close(g.entered)
	<-g.release
	return errors.New("etcd unavailable")
}
