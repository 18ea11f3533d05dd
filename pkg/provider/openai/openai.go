package openai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider"
)

// Name is the backend identifier used in configuration and logs.
const Name = "openai"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds settings for the OpenAI-compatible backend.
type Config struct {
	// Model is the model name sent with every request.
	Model string

	// APIKey authenticates against the endpoint. If empty, the SDK falls
	// back to OPENAI_API_KEY. Local endpoints usually accept any key.
	APIKey string

	// BaseURL points at an OpenAI-compatible endpoint, enabling Ollama,
	// LM Studio, vLLM, or Azure. Empty means api.openai.com.
	BaseURL string

	// Timeout is the per-request timeout for API calls.
	Timeout time.Duration
}

// Client adapts any OpenAI-compatible chat completions endpoint to the
// provider interface. Unlike the on-device backend, the remote API is
// stateless, so each session carries its own message history and replays
// it on every request.
type Client struct {
	client openai.Client
	model  string
}

// New creates a client for the configured endpoint.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	var clientOpts []option.RequestOption
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		client: openai.NewClient(clientOpts...),
		model:  cfg.Model,
	}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return Name }

// Available verifies the endpoint is reachable by listing models, the
// cheapest call every OpenAI-compatible server implements.
func (c *Client) Available(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx); err != nil {
		return &provider.UnavailableError{
			Provider: Name,
			Reason:   fmt.Sprintf("endpoint not reachable: %v", err),
		}
	}
	return nil
}

// NewSession allocates a session with empty conversation history.
func (c *Client) NewSession(ctx context.Context) (provider.Session, error) {
	return &session{
		id:     uuid.NewString(),
		client: c,
	}, nil
}

// Close releases client resources. The SDK pools connections internally
// and needs no explicit teardown.
func (c *Client) Close() error { return nil }

// session keeps the conversation client-side and replays it on each
// request. The mutex only guards the history slice; the gateway already
// serializes Respond calls.
type session struct {
	id      string
	client  *Client
	mu      sync.Mutex
	history []openai.ChatCompletionMessageParamUnion
}

// ID returns the session's unique identifier.
func (s *session) ID() string { return s.id }

// Respond sends the full history plus the new prompt to the endpoint.
// The history is only extended after a successful response, so a failed
// generation leaves the session exactly as it was.
func (s *session) Respond(ctx context.Context, prompt string, opts *provider.Options) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]openai.ChatCompletionMessageParamUnion, len(s.history), len(s.history)+1)
	copy(messages, s.history)
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    s.client.model,
		Messages: messages,
	}
	if opts != nil {
		if opts.Temperature != nil {
			params.Temperature = openai.Float(*opts.Temperature)
		}
		if opts.MaxTokens != nil {
			params.MaxTokens = openai.Int(int64(*opts.MaxTokens))
		}
	}

	completion, err := s.client.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &provider.GenerationError{
			Provider: Name,
			Message:  fmt.Sprintf("chat completion failed: %v", err),
			Cause:    err,
		}
	}
	if len(completion.Choices) == 0 {
		return "", &provider.GenerationError{
			Provider: Name,
			Message:  "endpoint returned no choices",
		}
	}

	reply := completion.Choices[0].Message.Content
	s.history = append(messages, openai.AssistantMessage(reply))
	return reply, nil
}

// Close drops the session history.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	return nil
}
