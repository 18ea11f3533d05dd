//go:build !darwin

package foundation

import (
	"context"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider"
)

// Client is the non-darwin placeholder. Foundation Models only exists on
// macOS, so every availability check fails and no session can be opened.
// The server still builds on other platforms for the openai backend.
type Client struct{}

// New creates a placeholder client.
func New() *Client {
	return &Client{}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return Name }

// Available always reports unavailable off macOS.
func (c *Client) Available(ctx context.Context) error {
	return &provider.UnavailableError{
		Provider: Name,
		Reason:   "Foundation Models requires macOS with Apple Intelligence",
	}
}

// NewSession always fails off macOS.
func (c *Client) NewSession(ctx context.Context) (provider.Session, error) {
	return nil, c.Available(ctx)
}

// Close is a no-op.
func (c *Client) Close() error { return nil }
