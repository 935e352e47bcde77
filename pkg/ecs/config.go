package ecs

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// WorldConfig contains world initialization parameters. Obtain one from
// DefaultWorldConfig or WorldConfigFromEnv and adjust as needed.
type WorldConfig struct {
	// TimeScale is the initial factor applied to tick deltas.
	TimeScale float64 `env:"VELDT_TIME_SCALE" envDefault:"1.0"`

	// LogLevel selects the verbosity of the logger built by
	// WorldConfigFromEnv ("disabled", "debug", "info", ...). Ignored when
	// Logger is set explicitly.
	LogLevel string `env:"VELDT_LOG_LEVEL" envDefault:"disabled"`

	// EnableMetrics registers a prometheus collector for the world.
	EnableMetrics bool `env:"VELDT_METRICS" envDefault:"false"`

	// Logger used by all three managers. Nil disables logging.
	Logger *zerolog.Logger `env:"-"`

	// Clock is the monotonic time source for the system manager. Nil
	// selects the system clock.
	Clock Clock `env:"-"`

	// MetricsRegisterer receives the world collector when EnableMetrics is
	// set. Nil selects prometheus.DefaultRegisterer.
	MetricsRegisterer prometheus.Registerer `env:"-"`
}

// DefaultWorldConfig returns the configuration used by Default: real
// clock, time scale 1, no logging, no metrics.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		TimeScale: 1.0,
		LogLevel:  "disabled",
	}
}

// WorldConfigFromEnv loads configuration from VELDT_* environment
// variables on top of the defaults, and builds a stderr logger when
// VELDT_LOG_LEVEL enables one.
func WorldConfigFromEnv() (WorldConfig, error) {
	cfg := DefaultWorldConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LogLevel != "" && cfg.LogLevel != "disabled" {
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return cfg, fmt.Errorf("parse log level: %w", err)
		}
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
		cfg.Logger = &logger
	}
	return cfg, nil
}
