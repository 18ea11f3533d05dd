package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/config"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/gateway"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider/foundation"
	openaiprovider "github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider/openai"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/server"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/telemetry/logging"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/telemetry/metrics"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/transcript"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the completion gateway server",
	Long: `Start the completion gateway server with the specified configuration.

The server allocates one conversation session against the configured
model backend and serves it over HTTP. If the backend reports the model
unavailable, startup fails.

Examples:
  # Start with default config
  fmserver run

  # Start with custom config
  fmserver run --config /etc/fmserver/config.yaml

  # Override listen address
  fmserver run --listen 127.0.0.1:9090

  # Validate config without starting server
  fmserver run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration. A missing config file falls back to defaults
	// so `fmserver run` works out of the box.
	configFromFile := true
	if err := config.Initialize(cfgFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		configFromFile = false
		config.SetConfig(config.DefaultConfig())
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(logger.Logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("fmserver v%s\n", Version)
	if configFromFile {
		fmt.Printf("✓ Configuration loaded from %s\n", cfgFile)
	} else {
		fmt.Println("✓ Using default configuration (no config file found)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create the model provider
	prov, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer prov.Close()

	gatewayOpts := []gateway.Option{gateway.WithLogger(logger.Logger)}

	// Transcript recording
	if cfg.Transcript.Enabled {
		store, err := transcript.NewStore(cfg.Transcript.Path)
		if err != nil {
			return fmt.Errorf("failed to open transcript store: %w", err)
		}
		defer store.Close()

		rec := transcript.NewRecorder(store, transcript.RecorderConfig{
			AsyncBuffer: cfg.Transcript.AsyncBuffer,
		}, logger.Logger)
		defer rec.Close()
		gatewayOpts = append(gatewayOpts, gateway.WithRecorder(rec))

		pruner := transcript.NewPruner(store, transcript.PrunerConfig{
			RetentionDays: cfg.Transcript.RetentionDays,
			Schedule:      cfg.Transcript.PruneSchedule,
		}, logger.Logger)
		if err := pruner.Start(ctx); err != nil {
			logger.Warn("failed to start transcript pruner", "error", err)
		} else {
			defer pruner.Stop()
		}

		fmt.Printf("✓ Transcript store initialized (%s)\n", cfg.Transcript.Path)
	}

	// Metrics
	var metricsHandler http.Handler
	if cfg.Telemetry.Metrics.Enabled {
		collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		metricsHandler = collector.Handler()
		gatewayOpts = append(gatewayOpts, gateway.WithMetrics(collector))
	}

	// Allocate the session. Startup fails when the model is unavailable.
	gw, err := gateway.New(ctx, prov, cfg.Gateway, gatewayOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize gateway: %w", err)
	}
	defer gw.Close()

	fmt.Printf("✓ Model backend ready (%s)\n", prov.Name())

	// Watch the config file so log level changes apply without restart.
	if configFromFile {
		watcher, err := config.NewWatcher(cfgFile, logger.Logger)
		if err != nil {
			logger.Warn("config watcher unavailable", "error", err)
		} else {
			defer watcher.Stop()
			go func() {
				err := watcher.Watch(ctx, func(newCfg *config.Config) {
					if err := logger.SetLevel(newCfg.Telemetry.Logging.Level); err != nil {
						logger.Warn("invalid log level in reloaded config", "error", err)
					}
				})
				if err != nil {
					logger.Warn("config watcher stopped", "error", err)
				}
			}()
		}
	}

	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, gw, prov, metricsHandler)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Completion endpoint: http://%s/completion\n", cfg.Server.ListenAddress)
	fmt.Printf("  Reset endpoint:      http://%s/reset\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until a shutdown signal or server error.
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// newProvider builds the model provider named by the configuration.
func newProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.Provider.Backend {
	case "foundation":
		return foundation.New(), nil
	case "openai":
		return openaiprovider.New(openaiprovider.Config{
			Model:   cfg.Provider.OpenAI.Model,
			APIKey:  cfg.Provider.OpenAI.APIKey,
			BaseURL: cfg.Provider.OpenAI.BaseURL,
			Timeout: cfg.Provider.OpenAI.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider backend: %s", cfg.Provider.Backend)
	}
}
