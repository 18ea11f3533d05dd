package config

import "time"

// Config is the root configuration structure for the completion gateway.
// It covers the HTTP server, the model backend, gateway behavior, the
// completion transcript, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Provider selects and configures the model backend.
	Provider ProviderConfig `yaml:"provider"`

	// Gateway controls session handling behavior.
	Gateway GatewayConfig `yaml:"gateway"`

	// Transcript controls completion transcript recording and retention.
	Transcript TranscriptConfig `yaml:"transcript"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". The server is meant to stay on loopback.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response. On-device generation can take a while, so this is
	// deliberately generous.
	// Default: 5m
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are dropped.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits what the server reads parsing request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of a completion request body.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
// The gateway is permissive by default so browser pages can call it
// directly without a proxy.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers.
	// Default: ["Content-Type"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`
}

// ProviderConfig selects and configures the model backend.
type ProviderConfig struct {
	// Backend names the model backend to use.
	// Options: "foundation" (Apple on-device model), "openai" (any
	// OpenAI-compatible endpoint).
	// Default: "foundation"
	Backend string `yaml:"backend"`

	// OpenAI configures the OpenAI-compatible backend. Ignored when
	// Backend is "foundation".
	OpenAI OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig contains settings for the OpenAI-compatible backend.
type OpenAIConfig struct {
	// Model is the model name sent with every request.
	// Default: "gpt-4o-mini"
	Model string `yaml:"model"`

	// APIKey authenticates against the endpoint. Typically loaded from
	// an environment variable; local endpoints accept any value.
	APIKey string `yaml:"api_key"`

	// BaseURL points at an OpenAI-compatible endpoint (Ollama, LM Studio,
	// vLLM). Empty means the official OpenAI API.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request timeout for API calls.
	// Default: 2m
	Timeout time.Duration `yaml:"timeout"`
}

// GatewayConfig controls single-session handling.
type GatewayConfig struct {
	// BusyPolicy decides what happens to a completion request that
	// arrives while a generation is already in flight.
	// Options: "queue" (wait for the current generation), "reject"
	// (fail immediately with a busy error).
	// Default: "queue"
	BusyPolicy string `yaml:"busy_policy"`
}

// Busy policy values for GatewayConfig.BusyPolicy.
const (
	BusyPolicyQueue  = "queue"
	BusyPolicyReject = "reject"
)

// TranscriptConfig controls completion transcript recording.
type TranscriptConfig struct {
	// Enabled turns transcript recording on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file for transcripts.
	// Default: "data/transcripts.db"
	Path string `yaml:"path"`

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 256
	AsyncBuffer int `yaml:"async_buffer"`

	// RetentionDays is how long transcript entries are kept.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled retention pruning.
	// Empty disables scheduled pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is where the Prometheus handler is mounted.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "fmserver"
	Namespace string `yaml:"namespace"`
}
