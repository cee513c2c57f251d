// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/platform/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Output formats accepted by Setup.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

type logEnv struct {
	Level  string `env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`
	Format string `env:"STOREFRONT_LOG_FORMAT" envDefault:"console"`
}

// SetupFromEnv reads STOREFRONT_LOG_LEVEL and STOREFRONT_LOG_FORMAT and
// configures the global logger for service.
func SetupFromEnv(service string) error {
	var cfg logEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	return Setup(os.Stderr, service, cfg.Level, cfg.Format)
}

// Setup configures the global logger to write to w.
func Setup(w io.Writer, service, level, format string) error {
	logger, err := New(w, service, level, format)
	if err != nil {
		return err
	}
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(logger.GetLevel())
	log.Logger = logger
	return nil
}

// New builds a logger without touching global state.
func New(w io.Writer, service, level, format string) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if service = strings.TrimSpace(service); service != "" {
		ctx = ctx.Str("service", service)
	}
	return ctx.Logger(), nil
}

// ParseLevel maps a textual level to zerolog, defaulting to info.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return lvl, nil
}
