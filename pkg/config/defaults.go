package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 5 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = int64(1048576)

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600 // 1 hour

	// Provider defaults
	DefaultProviderBackend = "foundation"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultOpenAITimeout   = 2 * time.Minute

	// Gateway defaults
	DefaultBusyPolicy = BusyPolicyQueue

	// Transcript defaults
	DefaultTranscriptEnabled       = true
	DefaultTranscriptPath          = "data/transcripts.db"
	DefaultTranscriptAsyncBuffer   = 256
	DefaultTranscriptRetentionDays = 30
	DefaultTranscriptPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "fmserver"
)

// DefaultConfig returns a configuration populated entirely with defaults.
// LoadConfig decodes the YAML file on top of this value, so a key absent
// from the file keeps its default while an explicit value, including
// `enabled: false`, is taken as written.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:   DefaultListenAddress,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxHeaderBytes:  DefaultMaxHeaderBytes,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			CORS: CORSConfig{
				Enabled:        DefaultCORSEnabled,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         DefaultCORSMaxAge,
			},
		},
		Provider: ProviderConfig{
			Backend: DefaultProviderBackend,
			OpenAI: OpenAIConfig{
				Model:   DefaultOpenAIModel,
				Timeout: DefaultOpenAITimeout,
			},
		},
		Gateway: GatewayConfig{
			BusyPolicy: DefaultBusyPolicy,
		},
		Transcript: TranscriptConfig{
			Enabled:       DefaultTranscriptEnabled,
			Path:          DefaultTranscriptPath,
			AsyncBuffer:   DefaultTranscriptAsyncBuffer,
			RetentionDays: DefaultTranscriptRetentionDays,
			PruneSchedule: DefaultTranscriptPruneSchedule,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLoggingLevel,
				Format: DefaultLoggingFormat,
			},
			Metrics: MetricsConfig{
				Enabled:   DefaultMetricsEnabled,
				Path:      DefaultMetricsPath,
				Namespace: DefaultMetricsNamespace,
			},
		},
	}
}
