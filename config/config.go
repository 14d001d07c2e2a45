// Package config provides configuration management for Gothink.
package config

import (
	"fmt"
	"time"
)

// Config is the global configuration for Gothink.
type Config struct {
	// App is the application configuration.
	App AppConfig `mapstructure:"app" validate:"required"`

	// Server is the HTTP server configuration.
	Server ServerConfig `mapstructure:"server" validate:"required"`

	// Log is the logging configuration.
	Log LogConfig `mapstructure:"log" validate:"required"`

	// Thinking is the reasoning-state configuration.
	Thinking ThinkingConfig `mapstructure:"thinking"`

	// Security is the content and quota gate configuration.
	Security SecurityConfig `mapstructure:"security"`

	// MCTS is the branch suggestion engine configuration.
	MCTS MCTSConfig `mapstructure:"mcts"`

	// Metrics is the observability configuration.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Tracing is the distributed tracing configuration.
	Tracing TracingConfig `mapstructure:"tracing"`
}

// AppConfig holds application metadata and settings.
type AppConfig struct {
	// Name is the application name.
	Name string `mapstructure:"name" validate:"required"`

	// Version is the application version.
	Version string `mapstructure:"version"`

	// Environment is the runtime environment (development, staging, production).
	Environment string `mapstructure:"environment" validate:"oneof=development staging production"`

	// Debug enables debug mode with verbose logging.
	Debug bool `mapstructure:"debug"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	// Host is the bind address.
	Host string `mapstructure:"host"`

	// Port is the HTTP API port.
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`

	// HTTP is the HTTP server configuration.
	HTTP HTTPConfig `mapstructure:"http"`

	// CORS is the CORS configuration.
	CORS CORSConfig `mapstructure:"cors"`

	// Throttle is the request throttling configuration.
	Throttle ThrottleConfig `mapstructure:"throttle"`

	// Breaker is the circuit breaker configuration.
	Breaker BreakerConfig `mapstructure:"breaker"`
}

// HTTPConfig holds HTTP-specific settings.
type HTTPConfig struct {
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `mapstructure:"max_header_bytes"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	// Enabled enables CORS support.
	Enabled bool `mapstructure:"enabled"`

	// AllowedOrigins is the list of allowed origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// AllowedMethods is the list of allowed HTTP methods.
	AllowedMethods []string `mapstructure:"allowed_methods"`

	// AllowedHeaders is the list of allowed headers.
	AllowedHeaders []string `mapstructure:"allowed_headers"`

	// ExposedHeaders is the list of headers exposed to the client.
	ExposedHeaders []string `mapstructure:"exposed_headers"`

	// AllowCredentials indicates whether credentials are allowed.
	AllowCredentials bool `mapstructure:"allow_credentials"`

	// MaxAge is the maximum age of CORS preflight cache in seconds.
	MaxAge int `mapstructure:"max_age"`
}

// ThrottleConfig holds API request throttling settings.
type ThrottleConfig struct {
	// Enabled enables per-client request throttling.
	Enabled bool `mapstructure:"enabled"`

	// RPS is the sustained requests-per-second allowance per client.
	RPS float64 `mapstructure:"rps" validate:"min=0"`

	// Burst is the maximum burst size per client.
	Burst int `mapstructure:"burst" validate:"min=0"`
}

// BreakerConfig holds circuit breaker settings for the API.
type BreakerConfig struct {
	// Enabled enables the circuit breaker middleware.
	Enabled bool `mapstructure:"enabled"`

	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32 `mapstructure:"max_requests"`

	// Interval is the cyclic period for clearing failure counts while closed.
	Interval time.Duration `mapstructure:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `mapstructure:"timeout"`

	// FailureRatio is the failure ratio that trips the breaker.
	FailureRatio float64 `mapstructure:"failure_ratio" validate:"min=0,max=1"`

	// MinRequests is the minimum request count before the ratio applies.
	MinRequests uint32 `mapstructure:"min_requests"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format is the output format (json, text).
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// Output is the output destination (stdout, stderr, or file path).
	Output string `mapstructure:"output"`
}

// ThinkingConfig holds reasoning-state settings. All values are fixed at
// construction; changing them requires a restart.
type ThinkingConfig struct {
	// MaxHistory is the capacity of the thought history ring.
	MaxHistory int `mapstructure:"max_history" validate:"min=1"`

	// MaxThoughtLength is the maximum accepted thought text length in bytes.
	MaxThoughtLength int `mapstructure:"max_thought_length" validate:"min=1"`

	// MaxBranchThoughts is the per-branch thought cap; older entries are
	// dropped when a branch grows past it.
	MaxBranchThoughts int `mapstructure:"max_branch_thoughts" validate:"min=1"`

	// BranchTTL is how long an untouched branch survives before the
	// cleanup pass removes it.
	BranchTTL time.Duration `mapstructure:"branch_ttl"`

	// CleanupInterval is how often the background cleanup pass runs.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`

	// SessionIdleTimeout is how long an inactive session is tracked before
	// being garbage-collected.
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
}

// SecurityConfig holds content filtering and per-session quota settings.
type SecurityConfig struct {
	// MaxThoughtsPerMinute is the per-session sliding window quota.
	// Zero disables the quota.
	MaxThoughtsPerMinute int `mapstructure:"max_thoughts_per_minute" validate:"min=0"`

	// BlockedPatterns is the list of blocked content patterns. Each entry
	// is tried as a case-insensitive regular expression and falls back to
	// a case-insensitive substring match if it does not compile.
	BlockedPatterns []string `mapstructure:"blocked_patterns"`
}

// MCTSConfig holds branch suggestion engine settings.
type MCTSConfig struct {
	// DefaultStrategy is the strategy used when a request does not name
	// one (explore, exploit, balanced).
	DefaultStrategy string `mapstructure:"default_strategy" validate:"oneof=explore exploit balanced"`
}

// MetricsConfig holds observability settings.
type MetricsConfig struct {
	// Enabled enables metrics collection.
	Enabled bool `mapstructure:"enabled"`

	// Path is the metrics endpoint path.
	Path string `mapstructure:"path"`

	// Port is the metrics server port.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// TracingConfig holds distributed tracing settings.
type TracingConfig struct {
	// Enabled enables distributed tracing.
	Enabled bool `mapstructure:"enabled"`

	// Exporter is the span exporter (otlp).
	Exporter string `mapstructure:"exporter"`

	// Endpoint is the collector endpoint.
	Endpoint string `mapstructure:"endpoint"`

	// Timeout is the exporter timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// Headers are additional headers sent to the collector.
	Headers map[string]string `mapstructure:"headers"`

	// Sampler selects the sampling policy (ratio, always_on, always_off).
	Sampler string `mapstructure:"sampler"`

	// SampleRate is the fraction of traces to sample (0.0-1.0).
	SampleRate float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}

// Validate performs validation on the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// String returns a string representation of the configuration (without sensitive data).
func (c *Config) String() string {
	return fmt.Sprintf("Config{App: %s, Server: :%d, Env: %s}",
		c.App.Name, c.Server.Port, c.App.Environment)
}
