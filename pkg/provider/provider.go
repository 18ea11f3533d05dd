package provider

import "context"

// Provider is the contract for an on-device or remote language model
// backend. The gateway treats the backend as an opaque capability: it can
// report availability, open conversational sessions, and nothing else.
//
// All blocking methods accept a context.Context for cancellation.
// Implementations must return promptly when the context is cancelled.
//
// Example usage:
//
//	p, err := foundation.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	sess, err := p.NewSession(ctx)
//	if err != nil {
//	    return err
//	}
//	text, err := sess.Respond(ctx, "Hello!", nil)
type Provider interface {
	// Available reports whether the underlying model is ready to serve
	// requests. It returns nil when the model is usable, or an
	// *UnavailableError describing why it is not (feature disabled,
	// unsupported hardware, endpoint unreachable).
	Available(ctx context.Context) error

	// NewSession allocates a fresh conversational session with no prior
	// context. The caller owns the returned session and must Close it.
	NewSession(ctx context.Context) (Session, error)

	// Name returns the backend identifier (e.g., "foundation", "openai").
	Name() string

	// Close releases backend resources. After Close, the provider and any
	// sessions created from it must not be used.
	Close() error
}

// Session is one stateful conversation held by a Provider. Each Respond
// call appends a turn; the backend remembers prior turns until the session
// is discarded.
//
// Sessions are not safe for concurrent use. Callers must serialize access;
// the gateway does this with a single in-flight generation at a time.
type Session interface {
	// Respond generates text for the prompt within this session's context.
	// Options fields that are nil fall back to the backend's defaults.
	// A failed generation leaves the session state unchanged.
	Respond(ctx context.Context, prompt string, opts *Options) (string, error)

	// ID returns an identifier unique to this session instance. Two
	// sessions from the same provider never share an ID, which makes
	// session replacement observable in tests and transcripts.
	ID() string

	// Close releases the session's resources.
	Close() error
}

// Options carries per-request generation parameters. Nil pointer fields
// are forwarded as "unset" so the backend applies its own defaults; the
// gateway performs no clamping or validation of the values.
type Options struct {
	// Temperature controls sampling randomness. Conventionally 0.0
	// (deterministic) to 2.0 (creative); the range is not enforced here.
	Temperature *float64

	// MaxTokens bounds the length of the generated response.
	MaxTokens *int
}
