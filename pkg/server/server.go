package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/config"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/gateway"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/server/handlers"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/server/middleware"
)

// Server is the HTTP front end of the completion gateway.
type Server struct {
	config       *config.ServerConfig
	metricsCfg   *config.MetricsConfig
	gateway      *gateway.Gateway
	provider     provider.Provider
	metrics      http.Handler
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new gateway server. metricsHandler may be nil when
// metrics are disabled.
func NewServer(cfg *config.ServerConfig, metricsCfg *config.MetricsConfig, gw *gateway.Gateway, p provider.Provider, metricsHandler http.Handler) *Server {
	return &Server{
		config:       cfg,
		metricsCfg:   metricsCfg,
		gateway:      gw,
		provider:     p,
		metrics:      metricsHandler,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting completion gateway", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("completion gateway stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/completion", handlers.NewCompletionHandler(s.gateway, s.config.MaxBodyBytes))
	mux.Handle("/reset", handlers.NewResetHandler(s.gateway))
	mux.Handle("/health", handlers.NewHealthHandler())
	mux.Handle("/ready", handlers.NewReadyHandler(s.provider))
	if s.metricsCfg != nil && s.metricsCfg.Enabled && s.metrics != nil {
		mux.Handle(s.metricsCfg.Path, s.metrics)
	}

	// Everything else gets the guidance 404, in the same JSON shape as
	// every other response.
	mux.Handle("/", handlers.NotFoundHandler())

	var handler http.Handler = mux

	// CORS sits innermost so preflight short-circuits before routing;
	// RequestID wraps Logging so log lines carry the ID; Recovery is
	// outermost so nothing escapes.
	handler = middleware.CORS(s.config.CORS)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler. Useful for tests that
// drive the server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
