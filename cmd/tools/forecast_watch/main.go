// Command forecast_watch consumes published forecasts and prints the
// production plan for each product as it arrives.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/queue"
)

func main() {
	_ = godotenv.Load(".env")

	configPath := flag.String("config", "", "Path to configuration file")
	days := flag.Int("days", 7, "Days of demand to plan for")
	safetyFactor := flag.Float64("safety-factor", 1.1, "Multiplier applied to expected demand")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	consumer, err := queue.NewForecastConsumerFromConfig(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "type", cfg.Queue.Type, "error", err)
	}
	defer func() { _ = consumer.Close() }()

	err = consumer.Start(func(event queue.ForecastEvent) error {
		plan := forecast.PlanProduction(event.Forecast, *days, *safetyFactor)
		logger.Info("Production plan",
			"event_id", event.EventID,
			"product_id", plan.ProductID,
			"days", plan.Days,
			"expected_demand", plan.ExpectedDemand,
			"upper_demand", plan.UpperDemand,
			"recommended_units", plan.RecommendedUnits,
			"confidence", plan.ConfidenceScore)
		return nil
	})
	if err != nil {
		logger.Fatal("Failed to consume forecasts", "error", err)
	}
	logger.Info("Watching forecasts", "type", cfg.Queue.Type, "subjects", consumer.Pattern())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Stopping forecast watch")
}
