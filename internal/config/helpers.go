package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the layout of calendar dates in configuration files
const DateLayout = "2006-01-02"

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// Location returns the calendar timezone for seasonal factors.
// Returns UTC if not configured or invalid.
// Supports formats:
//   - IANA timezone names: "America/Sao_Paulo", "Europe/Lisbon", "UTC"
//   - Offset format: "-03:00", "+01:00", "+00:00"
func (c *ForecastConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}

	// Try parsing as IANA timezone name first
	loc, err := time.LoadLocation(c.Timezone)
	if err == nil {
		return loc
	}

	loc, err = parseOffsetTimezone(c.Timezone)
	if err == nil {
		return loc
	}

	return time.UTC
}

// FactorDates holds the parsed range of a configured seasonal factor
type FactorDates struct {
	Start time.Time
	End   time.Time
}

// Dates parses the factor range in loc
func (f SeasonalFactorConfig) Dates(loc *time.Location) (FactorDates, error) {
	start, err := time.ParseInLocation(DateLayout, f.StartDate, loc)
	if err != nil {
		return FactorDates{}, fmt.Errorf("invalid start_date %q: %w", f.StartDate, err)
	}

	end, err := time.ParseInLocation(DateLayout, f.EndDate, loc)
	if err != nil {
		return FactorDates{}, fmt.Errorf("invalid end_date %q: %w", f.EndDate, err)
	}

	if end.Before(start) {
		return FactorDates{}, fmt.Errorf("end_date %s is before start_date %s", f.EndDate, f.StartDate)
	}

	return FactorDates{Start: start, End: end}, nil
}

// parseOffsetTimezone parses timezone offset format like "+09:00", "-05:00"
func parseOffsetTimezone(offset string) (*time.Location, error) {
	matches := offsetPattern.FindStringSubmatch(offset)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid offset format: %s", offset)
	}

	sign := 1
	if matches[1] == "-" {
		sign = -1
	}

	hours, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid hours: %s", matches[2])
	}

	minutes, err := strconv.Atoi(matches[3])
	if err != nil {
		return nil, fmt.Errorf("invalid minutes: %s", matches[3])
	}

	offsetSeconds := sign * (hours*3600 + minutes*60)
	return time.FixedZone(offset, offsetSeconds), nil
}
