package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/config"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider"
)

// ErrSessionBusy is returned under the "reject" busy policy when a
// completion request arrives while another generation is in flight.
var ErrSessionBusy = errors.New("a generation is already in flight")

// promptPreviewLen bounds the prompt/response excerpts written to logs.
const promptPreviewLen = 50

// Request is one completion request as seen by the gateway.
type Request struct {
	// Prompt is the user's prompt. Must be non-empty.
	Prompt string

	// SystemPrompt optionally sets behavior for this turn. When present
	// it is folded into the effective prompt; see composePrompt.
	SystemPrompt string

	// Temperature is forwarded verbatim to the backend when non-nil.
	Temperature *float64

	// MaxTokens is forwarded verbatim to the backend when non-nil.
	MaxTokens *int
}

// Metrics receives gateway-level observations. Implemented by the
// telemetry collector; a nil Metrics disables recording.
type Metrics interface {
	ObserveCompletionStart()
	ObserveCompletion(status string, duration time.Duration)
	ObserveReset()
	ObserveBusyRejection()
}

// Recorder receives completed generations for transcript storage.
// Implemented by the transcript recorder; a nil Recorder disables it.
type Recorder interface {
	Record(sessionID, prompt, response, status, errMsg string, latency time.Duration)
}

// Gateway owns the process-wide conversation session. All access to the
// session goes through Generate and Reset; the raw handle is never
// exposed. A mutex serializes generations so that no two requests ever
// share unflushed conversational context, and Reset happens strictly
// after any generation already in flight.
type Gateway struct {
	provider provider.Provider
	policy   string
	logger   *slog.Logger
	metrics  Metrics
	recorder Recorder

	mu      sync.Mutex
	session provider.Session
}

// Option configures optional gateway collaborators.
type Option func(*Gateway)

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithRecorder attaches a transcript recorder.
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

// WithLogger sets the gateway logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// New creates a gateway backed by the given provider and opens the
// initial session. It fails when the backend is unavailable or the
// session cannot be allocated; at startup that failure is fatal to the
// process.
func New(ctx context.Context, p provider.Provider, cfg config.GatewayConfig, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		provider: p,
		policy:   cfg.BusyPolicy,
		logger:   slog.Default().With("component", "gateway"),
	}
	for _, o := range opts {
		o(g)
	}
	if g.policy == "" {
		g.policy = config.BusyPolicyQueue
	}

	if err := p.Available(ctx); err != nil {
		return nil, err
	}

	sess, err := p.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate initial session: %w", err)
	}
	g.session = sess

	g.logger.Info("gateway ready",
		"backend", p.Name(),
		"session_id", sess.ID(),
		"busy_policy", g.policy,
	)
	return g, nil
}

// Generate produces text for the request within the current session.
// Generations are serialized: under the default "queue" policy a second
// request waits for the one in flight; under "reject" it fails with
// ErrSessionBusy. A failed generation leaves the session unchanged.
func (g *Gateway) Generate(ctx context.Context, req Request) (string, error) {
	if !g.acquire() {
		g.logger.Warn("completion rejected, generation in flight")
		if g.metrics != nil {
			g.metrics.ObserveBusyRejection()
		}
		return "", ErrSessionBusy
	}
	defer g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.ObserveCompletionStart()
	}

	prompt := composePrompt(req.SystemPrompt, req.Prompt)
	opts := &provider.Options{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	start := time.Now()
	text, err := g.session.Respond(ctx, prompt, opts)
	latency := time.Since(start)

	if err != nil {
		if g.metrics != nil {
			g.metrics.ObserveCompletion("error", latency)
		}
		if g.recorder != nil {
			g.recorder.Record(g.session.ID(), prompt, "", "error", err.Error(), latency)
		}
		return "", err
	}

	g.logger.Info("completion generated",
		"session_id", g.session.ID(),
		"prompt_preview", preview(req.Prompt, promptPreviewLen),
		"response_preview", preview(text, promptPreviewLen),
		"latency_ms", latency.Milliseconds(),
	)
	if g.metrics != nil {
		g.metrics.ObserveCompletion("success", latency)
	}
	if g.recorder != nil {
		g.recorder.Record(g.session.ID(), prompt, text, "success", "", latency)
	}
	return text, nil
}

// Reset discards the current session and allocates a fresh one, so
// subsequent generations have no memory of prior turns. It takes the
// same lock as Generate and therefore never races a generation in
// flight. Resets always queue, even under the "reject" policy; a client
// explicitly asking to wipe state should not bounce off a busy session.
func (g *Gateway) Reset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.session
	sess, err := g.provider.NewSession(ctx)
	if err != nil {
		// The old session stays in place so the gateway remains usable.
		return fmt.Errorf("failed to allocate replacement session: %w", err)
	}
	g.session = sess
	if old != nil {
		_ = old.Close()
	}

	g.logger.Info("session reset", "session_id", sess.ID())
	if g.metrics != nil {
		g.metrics.ObserveReset()
	}
	return nil
}

// SessionID returns the identifier of the current session. Mostly useful
// for tests and transcripts; the session itself stays private.
func (g *Gateway) SessionID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.ID()
}

// Close releases the session and the underlying provider.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil {
		_ = g.session.Close()
		g.session = nil
	}
	return g.provider.Close()
}

// acquire takes the generation lock according to the busy policy.
func (g *Gateway) acquire() bool {
	if g.policy == config.BusyPolicyReject {
		return g.mu.TryLock()
	}
	g.mu.Lock()
	return true
}

// composePrompt folds an optional system prompt into the user prompt.
// The model has no separate instruction channel on every backend, so the
// gateway uses a plain-text convention. This is a formatting choice of
// this server, not a guaranteed instruction-following mechanism.
func composePrompt(systemPrompt, prompt string) string {
	if systemPrompt == "" {
		return prompt
	}
	return fmt.Sprintf("System: %s\n\nUser: %s", systemPrompt, prompt)
}

// preview truncates s for log output, cutting on a rune boundary so a
// multi-byte character is never split.
func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
