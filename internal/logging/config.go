package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/soltixdb/demandcast/internal/config"
)

// ServiceName is attached to every entry written by NewFromConfig loggers
const ServiceName = "demandcast"

// NewFromConfig creates a logger from configuration. Unknown levels fall
// back to info.
func NewFromConfig(cfg config.LoggingConfig) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output, err := openOutput(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	if cfg.Format == "console" || cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: getTimeFormat(cfg.TimeFormat),
		}
	} else if cfg.TimeFormat == "UnixMs" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	}

	zl := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()

	return &Logger{zl: zl, fields: make(map[string]interface{})}, nil
}

// openOutput resolves stdout, stderr or an append-only log file
func openOutput(path string) (io.Writer, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	logDir := filepath.Dir(path)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}

// getTimeFormat converts string to time format
func getTimeFormat(format string) string {
	switch format {
	case "Unix":
		return time.UnixDate
	case "Kitchen":
		return time.Kitchen
	default:
		return time.RFC3339
	}
}
