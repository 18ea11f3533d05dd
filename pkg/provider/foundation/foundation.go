//go:build darwin

package foundation

import (
	"context"
	"fmt"

	fm "github.com/blacktop/go-foundationmodels"
	"github.com/google/uuid"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider"
)

// Client adapts Apple's Foundation Models framework to the provider
// interface. Generation runs entirely on-device; no network is involved.
type Client struct{}

// New creates a Foundation Models client. Availability is not checked
// here; call Available before serving traffic.
func New() *Client {
	return &Client{}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return Name }

// Available checks whether the on-device model can serve requests.
// The framework distinguishes several unavailability reasons (Apple
// Intelligence disabled, ineligible device); each maps to an
// UnavailableError with a human-readable reason.
func (c *Client) Available(ctx context.Context) error {
	switch fm.CheckModelAvailability() {
	case fm.ModelAvailable:
		return nil
	case fm.ModelUnavailableAINotEnabled:
		return &provider.UnavailableError{
			Provider: Name,
			Reason:   "Apple Intelligence is not enabled",
		}
	case fm.ModelUnavailableDeviceNotEligible:
		return &provider.UnavailableError{
			Provider: Name,
			Reason:   "device is not eligible for Apple Intelligence",
		}
	default:
		return &provider.UnavailableError{
			Provider: Name,
			Reason:   "model unavailable for an unknown reason",
		}
	}
}

// NewSession allocates a fresh on-device language model session.
func (c *Client) NewSession(ctx context.Context) (provider.Session, error) {
	if err := c.Available(ctx); err != nil {
		return nil, err
	}
	return &session{
		id:   uuid.NewString(),
		sess: fm.NewSession(),
	}, nil
}

// Close releases client resources. The framework keeps no client-level
// state, so this is a no-op.
func (c *Client) Close() error { return nil }

// session wraps one fm.Session. Not safe for concurrent use, matching
// the framework's own threading contract; the gateway serializes access.
type session struct {
	id   string
	sess *fm.Session
}

// ID returns the session's unique identifier.
func (s *session) ID() string { return s.id }

// Respond forwards the prompt to the on-device model. Temperature and
// max-token options are passed through untouched when set.
func (s *session) Respond(ctx context.Context, prompt string, opts *provider.Options) (string, error) {
	var fmOpts *fm.GenerationOptions
	if opts != nil && (opts.Temperature != nil || opts.MaxTokens != nil) {
		fmOpts = &fm.GenerationOptions{}
		if opts.Temperature != nil {
			t := float32(*opts.Temperature)
			fmOpts.Temperature = &t
		}
		if opts.MaxTokens != nil {
			n := *opts.MaxTokens
			fmOpts.MaxTokens = &n
		}
	}

	text, err := s.sess.RespondWithContext(ctx, prompt, fmOpts)
	if err != nil {
		return "", &provider.GenerationError{
			Provider: Name,
			Message:  fmt.Sprintf("on-device generation failed: %v", err),
			Cause:    err,
		}
	}
	return text, nil
}

// Close releases the underlying framework session.
func (s *session) Close() error {
	s.sess.Release()
	return nil
}
