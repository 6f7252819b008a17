package forecast

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soltixdb/demandcast/internal/analytics"
	"github.com/soltixdb/demandcast/internal/analytics/anomaly"
	"github.com/soltixdb/demandcast/internal/logging"
)

// Engine assembles demand forecasts from sales observations. It owns the
// configuration store and the per-product trend table.
type Engine struct {
	store  *Store
	logger *logging.Logger
	now    func() time.Time

	mu     sync.RWMutex
	trends map[string]ProductTrend

	parallelism int // Values < 1 use GOMAXPROCS
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the time source used for recency and influence windows
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the engine logger
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithParallelism bounds the number of products forecast concurrently in bulk runs
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// NewEngine creates an engine over store. A nil store uses DefaultConfig.
func NewEngine(store *Store, opts ...Option) *Engine {
	if store == nil {
		store = NewDefaultStore()
	}
	e := &Engine{
		store:  store,
		logger: logging.Global(),
		now:    time.Now,
		trends: make(map[string]ProductTrend),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the configuration store of the engine
func (e *Engine) Store() *Store {
	return e.store
}

// GenerateForecast forecasts one product. The second return value is false
// when the product has fewer cleaned observations than MinimumDataPoints.
func (e *Engine) GenerateForecast(productID string, observations []Observation) (*DemandForecast, bool) {
	cfg := e.store.Config()
	return e.generate(productID, analytics.SalesSeries(observations), cfg, e.store.ExternalFactors())
}

// GenerateBulkForecasts forecasts each product independently. Products without
// a forecast are absent from the result. Cancelling ctx stops scheduling new
// products and returns what was completed.
func (e *Engine) GenerateBulkForecasts(ctx context.Context, productIDs []string, observations []Observation) (map[string]*DemandForecast, error) {
	cfg := e.store.Config()
	external := e.store.ExternalFactors()

	byProduct := make(map[string]analytics.SalesSeries, len(productIDs))
	for _, o := range observations {
		byProduct[o.ProductID] = append(byProduct[o.ProductID], o)
	}

	limit := e.parallelism
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	results := make(map[string]*DemandForecast, len(productIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	seen := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if gctx.Err() != nil {
			break
		}

		productID := id
		series := byProduct[productID]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, ok := e.generate(productID, series, cfg, external)
			if !ok {
				return nil
			}
			mu.Lock()
			results[productID] = f
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	e.logger.Debug("Bulk forecast completed",
		"requested", len(productIDs),
		"forecasted", len(results))

	return results, err
}

func (e *Engine) generate(productID string, observations analytics.SalesSeries, cfg Config, external []ExternalFactor) (*DemandForecast, bool) {
	series := observations.ForProduct(productID).Sorted()

	if cfg.HistoryWindowDays > 0 {
		if last, ok := series.Last(); ok {
			cutoff := analytics.DayStart(last.Date).AddDate(0, 0, -cfg.HistoryWindowDays)
			series = series.Since(cutoff)
		}
	}

	clean := anomaly.FilterOutliers(series, cfg.OutlierDetectionThreshold)
	if len(clean) < cfg.MinimumDataPoints || len(clean) == 0 {
		e.logger.Debug("Insufficient data for forecast",
			"product_id", productID,
			"observations", len(clean),
			"minimum", cfg.MinimumDataPoints)
		return nil, false
	}

	now := e.now()

	trend := EstimateTrend(clean)
	productTrend := trend.ProductTrend(productID)
	e.setTrend(productTrend)

	intervalConfidence := ScoreConfidence(clean, IntervalTrendConfidence, cfg.MinimumDataPoints, now).Score
	interval := func(expected float64) float64 {
		return expected * (1 - intervalConfidence) * 0.5
	}

	hw := NewHoltWinters(cfg)
	state := hw.Fit(clean)
	resolver := NewResolver(cfg.SeasonalFactors, external)
	points := hw.Forecast(clean, state, cfg.ForecastHorizonDays, CategoryOf(productID), resolver, interval)

	factors := AnalyzeInfluence(InfluenceInput{
		ProductID: productID,
		Trend:     &productTrend,
		Series:    clean,
		Factors:   cfg.SeasonalFactors,
		Now:       now,
	})

	confidence := ScoreConfidence(clean, productTrend.ConfidenceScore, cfg.MinimumDataPoints, now)

	e.logger.Debug("Forecast generated",
		"product_id", productID,
		"observations", len(clean),
		"removed_outliers", len(series)-len(clean),
		"confidence", confidence.Score,
		"trend_fit", string(trend.Fit))

	return &DemandForecast{
		ProductID:          productID,
		ForecastPoints:     points,
		ConfidenceScore:    confidence.Score,
		InfluencingFactors: factors,
		Confidence:         confidence,
		ModelInfo:          hw.ModelInfo(clean, state),
		GeneratedAt:        now,
	}, true
}

func (e *Engine) setTrend(t ProductTrend) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trends[t.ProductID] = t
}

// Trend returns the last computed trend for a product
func (e *Engine) Trend(productID string) (ProductTrend, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.trends[productID]
	return t, ok
}

// Trends returns every cached trend ordered by product id
func (e *Engine) Trends() []ProductTrend {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]ProductTrend, 0, len(e.trends))
	for _, t := range e.trends {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
