package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "gothink",
			Version:     "dev",
			Environment: "development",
			Debug:       false,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			HTTP: HTTPConfig{
				ReadTimeout:     30 * time.Second,
				WriteTimeout:    30 * time.Second,
				IdleTimeout:     120 * time.Second,
				ShutdownTimeout: 10 * time.Second,
				MaxHeaderBytes:  1 << 20, // 1MB
			},
			Throttle: ThrottleConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  5,
				Interval:     60 * time.Second,
				Timeout:      30 * time.Second,
				FailureRatio: 0.6,
				MinRequests:  10,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Thinking: ThinkingConfig{
			MaxHistory:         1000,
			MaxThoughtLength:   50000,
			MaxBranchThoughts:  100,
			BranchTTL:          30 * time.Minute,
			CleanupInterval:    5 * time.Minute,
			SessionIdleTimeout: 1 * time.Hour,
		},
		Security: SecurityConfig{
			MaxThoughtsPerMinute: 60,
			BlockedPatterns:      nil,
		},
		MCTS: MCTSConfig{
			DefaultStrategy: "balanced",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9091,
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Exporter:   "otlp",
			Endpoint:   "localhost:4317",
			Timeout:    10 * time.Second,
			Sampler:    "ratio",
			SampleRate: 0.1,
		},
	}
}
