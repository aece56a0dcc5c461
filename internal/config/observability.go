package config

import (
	"fmt"
	"slices"
	"time"
)

// ObservabilityConfig groups the settings that make the service visible at runtime:
//   - logging: level and output format
//   - New Relic: APM transactions, distributed tracing and log forwarding
//   - health checks: which dependencies GET /status probes, and for how long
//
// The block is optional under Config.Observability; DefaultObservabilityConfig
// fills it in when no variable sets it.
type ObservabilityConfig struct {
	// ServiceName labels logs, traces and custom events. LoadConfig always sets
	// it to ServiceName.
	ServiceName string `koanf:"service_name"`

	// Environment splits telemetry per deployment. LoadConfig copies it from
	// primary.env.
	Environment string `koanf:"environment"`

	Logging      LoggingConfig      `koanf:"logging"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Empty picks a default per environment.
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`
}

// NewRelicConfig holds configuration for New Relic APM.
type NewRelicConfig struct {
	// LicenseKey is the ingest key. Empty disables the agent, and every New
	// Relic middleware becomes a pass-through.
	LicenseKey string `koanf:"license_key"`

	// AppLogForwardingEnabled ships zerolog output to New Relic in production.
	AppLogForwardingEnabled bool `koanf:"app_log_forwarding_enabled"`

	// DistributedTracingEnabled propagates trace headers across services.
	DistributedTracingEnabled bool `koanf:"distributed_tracing_enabled"`

	// DebugLogging routes the agent's own debug output to stdout.
	DebugLogging bool `koanf:"debug_logging"`
}

// HealthChecksConfig controls the dependency checks run by GET /status.
type HealthChecksConfig struct {
	// Enabled turns the dependency probes on. When off, /status only reports
	// the process as up.
	Enabled bool `koanf:"enabled"`

	// Timeout bounds each probe. Env values are durations such as "2s".
	Timeout time.Duration `koanf:"timeout"`

	// Checks names the dependencies to probe. Only "redis" is known.
	Checks []string `koanf:"checks"`
}

// DefaultObservabilityConfig is used when no observability block is configured.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
		},
		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Checks:  []string{"redis"},
		},
	}
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"json", "console"}
)

// Validate applies the rules that struct tags cannot express.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	if c.Logging.Level != "" && !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.Format != "" && !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("invalid logging format: %s (must be json or console)", c.Logging.Format)
	}

	if c.HealthChecks.Timeout < 0 {
		return fmt.Errorf("health_checks timeout must be non-negative")
	}

	return nil
}

// GetLogLevel returns the configured level, defaulting to info in production and
// debug elsewhere.
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	if c.IsProduction() {
		return "info"
	}
	return "debug"
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
