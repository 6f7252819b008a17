// Command forecast_csv forecasts products offline from a CSV or XLSX file of
// daily sales and writes forecasts and similarity groups as CSV, with an
// optional XLSX report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/services"
)

func main() {
	input := flag.String("input", "", "Observations file (.csv or .xlsx) with product_id,date,quantity,unit_price columns")
	output := flag.String("output", "./data/forecasts", "Output directory")
	configPath := flag.String("config", "", "Optional configuration file for the forecast section")
	horizon := flag.Int("horizon", 0, "Forecast horizon in days (overrides config)")
	report := flag.String("xlsx", "", "Optional XLSX report path")
	verbose := flag.Bool("verbose", false, "Log per-product engine output")

	flag.Parse()

	if *input == "" {
		log.Fatal("Error: -input parameter is required")
	}

	cfg := config.LoadOrDefault(*configPath)
	if *horizon > 0 {
		cfg.Forecast.HorizonDays = *horizon
	}
	if *verbose {
		logging.SetGlobal(logging.NewDevelopment())
	} else {
		logging.SetGlobal(logging.NewProduction())
	}

	engineCfg, err := services.EngineConfig(cfg.Forecast, time.Now())
	if err != nil {
		log.Fatalf("Error: invalid forecast configuration: %v\n", err)
	}
	store, err := forecast.NewStore(engineCfg)
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	observations, err := readObservations(*input, cfg.Forecast.Location())
	if err != nil {
		log.Fatalf("Error reading observations: %v\n", err)
	}
	if len(observations) == 0 {
		log.Printf("Warning: No observations found\n")
		return
	}

	productIDs := uniqueProducts(observations)
	fmt.Printf("Read %d observations for %d products\n", len(observations), len(productIDs))

	engine := forecast.NewEngine(store,
		forecast.WithLogger(logging.Global()),
		forecast.WithParallelism(cfg.Forecast.BulkParallelism))
	forecasts, err := engine.GenerateBulkForecasts(context.Background(), productIDs, observations)
	if err != nil {
		log.Fatalf("Error forecasting: %v\n", err)
	}
	groups := forecast.GroupBySimilarity(forecasts)

	fmt.Printf("Forecast %d products (%d without enough history), %d groups\n",
		len(forecasts), len(productIDs)-len(forecasts), len(groups))

	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatalf("Error creating output directory: %v\n", err)
	}

	forecastFile := filepath.Join(*output, "forecasts.csv")
	if err := writeForecastsCSV(forecastFile, forecasts, cfg.Forecast.Location()); err != nil {
		log.Fatalf("Error writing forecasts: %v\n", err)
	}
	fmt.Printf("Wrote %s\n", forecastFile)

	groupFile := filepath.Join(*output, "groups.csv")
	if err := writeGroupsCSV(groupFile, groups); err != nil {
		log.Fatalf("Error writing groups: %v\n", err)
	}
	fmt.Printf("Wrote %s\n", groupFile)

	if *report != "" {
		if err := writeReport(*report, forecasts, groups, cfg.Forecast.Location()); err != nil {
			log.Fatalf("Error writing XLSX report: %v\n", err)
		}
		fmt.Printf("Wrote %s\n", *report)
	}
}

// uniqueProducts returns the product ids of observations in sorted order
func uniqueProducts(observations []forecast.Observation) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, o := range observations {
		if !seen[o.ProductID] {
			seen[o.ProductID] = true
			ids = append(ids, o.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}
