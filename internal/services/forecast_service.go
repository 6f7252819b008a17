package services

import (
	"context"
	"errors"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/cache"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/queue"
	"github.com/soltixdb/demandcast/internal/utils"
)

// Error codes returned by ForecastService
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeNoForecast       = "NO_FORECAST"
	CodeForecastNotFound = "FORECAST_NOT_FOUND"
	CodeCancelled        = "CANCELLED"
	CodeCacheUnavailable = "CACHE_UNAVAILABLE"
)

// ForecastService handles forecasting business logic
type ForecastService struct {
	logger    *logging.Logger
	engine    *forecast.Engine
	cache     cache.ForecastCache      // Optional
	publisher *queue.ForecastPublisher // Optional
}

// NewForecastService creates a new ForecastService. cache and publisher may be nil.
func NewForecastService(
	logger *logging.Logger,
	engine *forecast.Engine,
	forecastCache cache.ForecastCache,
	publisher *queue.ForecastPublisher,
) *ForecastService {
	return &ForecastService{
		logger:    logger,
		engine:    engine,
		cache:     forecastCache,
		publisher: publisher,
	}
}

// ForecastRequest represents a single product forecast request
type ForecastRequest struct {
	ProductID    string
	Observations []forecast.Observation
}

// BulkForecastRequest represents a bulk forecast request
type BulkForecastRequest struct {
	ProductIDs   []string
	Observations []forecast.Observation
}

// BulkForecastResult holds the forecasts of a bulk run
type BulkForecastResult struct {
	Forecasts map[string]*forecast.DemandForecast `json:"forecasts"`
	Skipped   []string                            `json:"skipped"` // Requested products without a forecast
	Published int                                 `json:"published"`
}

// GroupRequest selects the forecasts to group. Forecasts given inline are
// used as is; otherwise ProductIDs are forecast from Observations, or read
// from the cache when no observations are given.
type GroupRequest struct {
	Forecasts    map[string]*forecast.DemandForecast
	ProductIDs   []string
	Observations []forecast.Observation
}

// Forecast generates, caches and publishes one product forecast
func (s *ForecastService) Forecast(ctx context.Context, req *ForecastRequest) (*forecast.DemandForecast, error) {
	startExec := time.Now()

	if req.ProductID == "" {
		return nil, NewServiceError(CodeInvalidRequest, "product_id is required")
	}

	f, ok := s.engine.GenerateForecast(req.ProductID, req.Observations)
	if !ok {
		cfg := s.engine.Store().Config()
		return nil, NewServiceErrorWithDetails(CodeNoForecast,
			"Not enough sales history to forecast "+req.ProductID,
			map[string]interface{}{
				"product_id":          req.ProductID,
				"minimum_data_points": cfg.MinimumDataPoints,
			})
	}

	s.store(ctx, f)
	s.publish(ctx, f)

	s.logger.WithContext(ctx).Info("Forecast completed",
		"product_id", req.ProductID,
		"observations", len(req.Observations),
		"confidence", f.ConfidenceScore,
		"latency_ms", time.Since(startExec).Milliseconds())

	return f, nil
}

// BulkForecast forecasts every requested product concurrently
func (s *ForecastService) BulkForecast(ctx context.Context, req *BulkForecastRequest) (*BulkForecastResult, error) {
	startExec := time.Now()

	if len(req.ProductIDs) == 0 {
		return nil, NewServiceError(CodeInvalidRequest, "product_ids must not be empty")
	}

	forecasts, err := s.engine.GenerateBulkForecasts(ctx, req.ProductIDs, req.Observations)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, NewServiceErrorWithDetails(CodeCancelled, "Bulk forecast was cancelled",
				map[string]interface{}{
					"completed": len(forecasts),
					"error":     err.Error(),
				})
		}
		return nil, err
	}

	result := &BulkForecastResult{
		Forecasts: forecasts,
		Skipped:   make([]string, 0),
	}

	seen := make(map[string]bool, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := forecasts[id]; !ok {
			result.Skipped = append(result.Skipped, id)
		}
	}

	for _, f := range forecasts {
		s.store(ctx, f)
	}

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
		published, err := s.publisher.PublishAll(pubCtx, forecasts)
		cancel()
		if err != nil {
			s.logger.Warn("Failed to publish bulk forecasts", "error", err)
		}
		result.Published = published
	}

	s.logger.WithContext(ctx).Info("Bulk forecast completed",
		"requested", len(seen),
		"forecasted", len(forecasts),
		"skipped", len(result.Skipped),
		"latency_ms", time.Since(startExec).Milliseconds())

	return result, nil
}

// CachedForecast returns the last forecast generated for a product
func (s *ForecastService) CachedForecast(ctx context.Context, productID string) (*forecast.DemandForecast, error) {
	if s.cache == nil {
		return nil, NewServiceError(CodeCacheUnavailable, "Forecast cache is not configured")
	}

	cacheCtx, cancel := context.WithTimeout(ctx, utils.CacheTimeout)
	defer cancel()

	f, ok, err := s.cache.Get(cacheCtx, productID)
	if err != nil {
		return nil, NewServiceErrorWithDetails(CodeCacheUnavailable, "Failed to read forecast cache",
			map[string]interface{}{"error": err.Error()})
	}
	if !ok {
		return nil, NewServiceErrorWithDetails(CodeForecastNotFound, "No forecast cached for "+productID,
			map[string]interface{}{"product_id": productID})
	}
	return f, nil
}

// Plan computes the production plan for a product from its cached forecast
func (s *ForecastService) Plan(ctx context.Context, productID string, days int, safetyFactor float64) (*forecast.ProductionPlan, error) {
	if days < 1 {
		return nil, NewServiceError(CodeInvalidRequest, "days must be at least 1")
	}
	if safetyFactor < 0 {
		return nil, NewServiceError(CodeInvalidRequest, "safety_factor must not be negative")
	}

	f, err := s.CachedForecast(ctx, productID)
	if err != nil {
		return nil, err
	}

	plan := forecast.PlanProduction(f, days, safetyFactor)
	return &plan, nil
}

// Groups clusters products by the shape of their forecast curves
func (s *ForecastService) Groups(ctx context.Context, req *GroupRequest) (forecast.Grouping, error) {
	forecasts := req.Forecasts

	switch {
	case len(forecasts) > 0:
		for id, f := range forecasts {
			if f != nil && f.ProductID == "" {
				f.ProductID = id
			}
		}

	case len(req.ProductIDs) > 0 && len(req.Observations) > 0:
		bulk, err := s.BulkForecast(ctx, &BulkForecastRequest{
			ProductIDs:   req.ProductIDs,
			Observations: req.Observations,
		})
		if err != nil {
			return nil, err
		}
		forecasts = bulk.Forecasts

	case len(req.ProductIDs) > 0:
		forecasts = make(map[string]*forecast.DemandForecast, len(req.ProductIDs))
		for _, id := range req.ProductIDs {
			f, err := s.CachedForecast(ctx, id)
			if err != nil {
				var svcErr *ServiceError
				if errors.As(err, &svcErr) && svcErr.Code == CodeForecastNotFound {
					continue
				}
				return nil, err
			}
			forecasts[id] = f
		}

	default:
		return nil, NewServiceError(CodeInvalidRequest, "forecasts or product_ids are required")
	}

	groups := forecast.GroupBySimilarity(forecasts)

	s.logger.Debug("Products grouped",
		"products", len(forecasts),
		"groups", len(groups))

	return groups, nil
}

// Trends returns the trend of every product forecast so far
func (s *ForecastService) Trends() []forecast.ProductTrend {
	return s.engine.Trends()
}

// Trend returns the cached trend of one product
func (s *ForecastService) Trend(productID string) (forecast.ProductTrend, error) {
	t, ok := s.engine.Trend(productID)
	if !ok {
		return t, NewServiceErrorWithDetails(CodeForecastNotFound, "No trend computed for "+productID,
			map[string]interface{}{"product_id": productID})
	}
	return t, nil
}

// store caches a forecast; failures only log
func (s *ForecastService) store(ctx context.Context, f *forecast.DemandForecast) {
	if s.cache == nil {
		return
	}
	cacheCtx, cancel := context.WithTimeout(ctx, utils.CacheTimeout)
	defer cancel()

	if err := s.cache.Put(cacheCtx, f); err != nil {
		s.logger.Warn("Failed to cache forecast", "product_id", f.ProductID, "error", err)
	}
}

// publish sends a forecast to planning consumers; failures only log
func (s *ForecastService) publish(ctx context.Context, f *forecast.DemandForecast) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, f); err != nil {
		s.logger.Warn("Failed to publish forecast", "product_id", f.ProductID, "error", err)
	}
}
