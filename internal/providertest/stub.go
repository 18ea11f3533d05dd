// Package providertest provides a deterministic in-memory provider for
// testing the gateway and HTTP layer without a real model.
package providertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider"
)

// Stub is a deterministic implementation of provider.Provider. It records
// every session it creates and every prompt and option set forwarded to
// those sessions, so tests can assert on session identity, parameter
// forwarding, and call serialization.
type Stub struct {
	mu         sync.Mutex
	availErr   error
	sessionErr error
	respondErr error
	delay      time.Duration
	sessions   []*StubSession
	seq        int
	closed     bool
}

// NewStub creates a healthy stub provider.
func NewStub() *Stub {
	return &Stub{}
}

// SetAvailableError makes availability checks fail with err.
func (s *Stub) SetAvailableError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availErr = err
}

// SetSessionError makes session allocation fail with err.
func (s *Stub) SetSessionError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionErr = err
}

// SetRespondError makes every generation fail with err.
func (s *Stub) SetRespondError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respondErr = err
}

// SetRespondDelay makes each generation take at least d, which widens the
// window for overlap detection in concurrency tests.
func (s *Stub) SetRespondDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Sessions returns every session the stub has created, in order.
func (s *Stub) Sessions() []*StubSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*StubSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Name returns the backend identifier.
func (s *Stub) Name() string { return "stub" }

// Available reports the scripted availability state.
func (s *Stub) Available(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availErr
}

// NewSession allocates a recorded session with a sequential identity.
func (s *Stub) NewSession(ctx context.Context) (provider.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	s.seq++
	sess := &StubSession{
		id:   fmt.Sprintf("stub-session-%d", s.seq),
		stub: s,
	}
	s.sessions = append(s.sessions, sess)
	return sess, nil
}

// Close marks the provider closed.
func (s *Stub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Stub) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// StubSession is one recorded conversation.
type StubSession struct {
	id   string
	stub *Stub

	mu       sync.Mutex
	prompts  []string
	opts     []*provider.Options
	inFlight int
	overlap  bool
	closed   bool
}

// ID returns the session identity.
func (ss *StubSession) ID() string { return ss.id }

// Respond echoes the prompt back, prefixed so tests can tell responses
// apart, after recording the call. Overlapping calls are flagged rather
// than failed, so the serialization property is asserted explicitly.
func (ss *StubSession) Respond(ctx context.Context, prompt string, opts *provider.Options) (string, error) {
	ss.mu.Lock()
	ss.inFlight++
	if ss.inFlight > 1 {
		ss.overlap = true
	}
	ss.prompts = append(ss.prompts, prompt)
	ss.opts = append(ss.opts, opts)
	ss.mu.Unlock()

	ss.stub.mu.Lock()
	delay := ss.stub.delay
	respondErr := ss.stub.respondErr
	ss.stub.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			ss.finish()
			return "", ctx.Err()
		}
	}

	ss.finish()
	if respondErr != nil {
		return "", respondErr
	}
	return "echo: " + prompt, nil
}

func (ss *StubSession) finish() {
	ss.mu.Lock()
	ss.inFlight--
	ss.mu.Unlock()
}

// Prompts returns every prompt this session has seen.
func (ss *StubSession) Prompts() []string {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := make([]string, len(ss.prompts))
	copy(out, ss.prompts)
	return out
}

// Options returns the options forwarded with each prompt.
func (ss *StubSession) Options() []*provider.Options {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := make([]*provider.Options, len(ss.opts))
	copy(out, ss.opts)
	return out
}

// Overlapped reports whether two Respond calls ever ran concurrently.
func (ss *StubSession) Overlapped() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.overlap
}

// Closed reports whether the session was closed.
func (ss *StubSession) Closed() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.closed
}

// Close marks the session closed.
func (ss *StubSession) Close() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.closed = true
	return nil
}
