package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/models"
)

var (
	forecastHeader = []string{"product_id", "date", "expected_quantity", "lower_bound", "upper_bound", "confidence_score"}
	groupHeader    = []string{"group", "product_id"}
	summaryHeader  = []string{"product_id", "confidence_score", "trend", "mape", "mae", "rmse", "data_points", "influencing_factors"}
)

// readObservations reads a .csv or .xlsx file whose first row names the
// product_id, date, quantity and optional unit_price columns
func readObservations(path string, loc *time.Location) ([]forecast.Observation, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}
	return parseObservations(rows, loc)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv file %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readXLSXRows reads every row of the first sheet
func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	defer func() { _ = rows.Close() }()

	var out [][]string
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", path, err)
		}
		out = append(out, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", path, err)
	}
	return out, nil
}

// parseObservations maps rows by header name; blank rows are skipped
func parseObservations(rows [][]string, loc *time.Location) ([]forecast.Observation, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"product_id", "date", "quantity"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing %s column", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]forecast.Observation, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		productID := cell(row, "product_id")
		if productID == "" && cell(row, "date") == "" {
			continue
		}

		date, err := models.ParseDate(cell(row, "date"), loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		quantity, err := strconv.Atoi(cell(row, "quantity"))
		if err != nil || quantity < 0 {
			return nil, fmt.Errorf("row %d: invalid quantity %q", line, cell(row, "quantity"))
		}
		price := 0.0
		if raw := cell(row, "unit_price"); raw != "" {
			if price, err = strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("row %d: invalid unit_price %q", line, raw)
			}
		}

		out = append(out, forecast.Observation{
			ProductID: productID,
			Date:      date,
			Quantity:  quantity,
			UnitPrice: price,
		})
	}
	return out, nil
}

func sortedIDs(forecasts map[string]*forecast.DemandForecast) []string {
	ids := make([]string, 0, len(forecasts))
	for id := range forecasts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// forecastRows flattens forecasts to one row per product and day
func forecastRows(forecasts map[string]*forecast.DemandForecast, loc *time.Location) [][]string {
	var rows [][]string
	for _, id := range sortedIDs(forecasts) {
		f := forecasts[id]
		for _, p := range f.ForecastPoints {
			rows = append(rows, []string{
				id,
				p.Date.In(loc).Format(models.DateLayout),
				strconv.Itoa(p.ExpectedQuantity),
				strconv.Itoa(p.LowerBound),
				strconv.Itoa(p.UpperBound),
				strconv.FormatFloat(f.ConfidenceScore, 'f', 4, 64),
			})
		}
	}
	return rows
}

func groupRows(groups forecast.Grouping) [][]string {
	var rows [][]string
	for _, g := range groups {
		for _, id := range g.ProductIDs {
			rows = append(rows, []string{g.Name, id})
		}
	}
	return rows
}

func summaryRows(forecasts map[string]*forecast.DemandForecast) [][]string {
	var rows [][]string
	for _, id := range sortedIDs(forecasts) {
		f := forecasts[id]
		trend := ""
		factors := make([]string, 0, len(f.InfluencingFactors))
		for _, factor := range f.InfluencingFactors {
			if factor.Factor == forecast.FactorTrend {
				trend = strconv.FormatFloat(factor.Impact, 'f', 4, 64)
			}
			factors = append(factors, fmt.Sprintf("%s=%.3f", factor.Factor, factor.Impact))
		}
		rows = append(rows, []string{
			id,
			strconv.FormatFloat(f.ConfidenceScore, 'f', 4, 64),
			trend,
			strconv.FormatFloat(f.ModelInfo.MAPE, 'f', 4, 64),
			strconv.FormatFloat(f.ModelInfo.MAE, 'f', 4, 64),
			strconv.FormatFloat(f.ModelInfo.RMSE, 'f', 4, 64),
			strconv.Itoa(f.ModelInfo.DataPoints),
			strings.Join(factors, ";"),
		})
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv file %s: %w", path, err)
	}
	return file.Sync()
}

func writeForecastsCSV(path string, forecasts map[string]*forecast.DemandForecast, loc *time.Location) error {
	return writeCSV(path, forecastHeader, forecastRows(forecasts, loc))
}

func writeGroupsCSV(path string, groups forecast.Grouping) error {
	return writeCSV(path, groupHeader, groupRows(groups))
}

// writeReport writes Forecasts, Groups and Summary sheets
func writeReport(path string, forecasts map[string]*forecast.DemandForecast, groups forecast.Grouping, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"Forecasts", forecastHeader, forecastRows(forecasts, loc)},
		{"Groups", groupHeader, groupRows(groups)},
		{"Summary", summaryHeader, summaryRows(forecasts)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return err
		}

		if err := setRow(f, sheet.name, 1, sheet.header); err != nil {
			return err
		}
		for r, row := range sheet.rows {
			if err := setRow(f, sheet.name, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx file %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
