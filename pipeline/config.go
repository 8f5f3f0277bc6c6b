package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edgedlt/tpsreport"
	"github.com/edgedlt/tpsreport/chart"
	"github.com/edgedlt/tpsreport/internal/metrics"
	"github.com/edgedlt/tpsreport/report"
)

// Config holds the configuration for a Generator.
type Config struct {
	// Registry resolves chain identifiers. Defaults to tpsreport.DefaultRegistry().
	Registry *tpsreport.Registry

	// Logger for structured logging.
	Logger *zap.Logger

	// Chart configures the throughput chart.
	Chart chart.Options

	// Latency enables the latency trend chart.
	Latency        bool
	LatencyOptions chart.LatencyOptions

	// Composer fills the fixed parts of the report.
	Composer report.Composer

	// Metrics records pipeline activity. Nil disables metrics.
	Metrics *metrics.Recorder

	// Clock stamps the report and the result directory name.
	Clock func() time.Time
}

// ConfigOption is a functional option for configuring a Generator.
type ConfigOption func(*Config) error

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	cfg := &Config{
		Registry:       tpsreport.DefaultRegistry(),
		Logger:         zap.NewNop(),
		Chart:          chart.DefaultOptions(),
		Latency:        true,
		LatencyOptions: chart.DefaultLatencyOptions(),
		Composer:       report.DefaultComposer(),
		Clock:          time.Now,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if err := c.Chart.Validate(); err != nil {
		return err
	}
	if c.Latency {
		if err := c.LatencyOptions.Validate(); err != nil {
			return err
		}
	}
	if c.Composer.TotalNodes <= 0 {
		return fmt.Errorf("%w: total nodes must be positive, got %d", tpsreport.ErrConfig, c.Composer.TotalNodes)
	}
	if c.Composer.StylesheetRef == "" {
		return fmt.Errorf("%w: stylesheet reference is required", tpsreport.ErrConfig)
	}
	return nil
}

// WithRegistry sets the chain registry.
func WithRegistry(r *tpsreport.Registry) ConfigOption {
	return func(c *Config) error {
		if r == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		c.Registry = r
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ConfigOption {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithChartOptions sets the throughput chart options.
func WithChartOptions(opts chart.Options) ConfigOption {
	return func(c *Config) error {
		c.Chart = opts
		return nil
	}
}

// WithLatencyChart enables or disables the latency chart.
func WithLatencyChart(enabled bool) ConfigOption {
	return func(c *Config) error {
		c.Latency = enabled
		return nil
	}
}

// WithLatencyOptions sets the latency chart options.
func WithLatencyOptions(opts chart.LatencyOptions) ConfigOption {
	return func(c *Config) error {
		c.LatencyOptions = opts
		return nil
	}
}

// WithComposer sets the report composer.
func WithComposer(composer report.Composer) ConfigOption {
	return func(c *Config) error {
		c.Composer = composer
		return nil
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) ConfigOption {
	return func(c *Config) error {
		c.Metrics = m
		return nil
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) ConfigOption {
	return func(c *Config) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		c.Clock = now
		return nil
	}
}
