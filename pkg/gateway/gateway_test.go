package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/aicodechef/apple-foundation-model-ai-server/internal/providertest"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/config"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/provider"
)

func newTestGateway(t *testing.T, stub *providertest.Stub, policy string) *Gateway {
	t.Helper()
	g, err := New(context.Background(), stub, config.GatewayConfig{BusyPolicy: policy})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestNewFailsWhenProviderUnavailable(t *testing.T) {
	stub := providertest.NewStub()
	stub.SetAvailableError(&provider.UnavailableError{Provider: "stub", Reason: "disabled"})

	_, err := New(context.Background(), stub, config.GatewayConfig{})

	var unavailable *provider.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("New() error = %v, want UnavailableError", err)
	}
}

func TestGenerateReturnsProviderText(t *testing.T) {
	stub := providertest.NewStub()
	g := newTestGateway(t, stub, config.BusyPolicyQueue)

	text, err := g.Generate(context.Background(), Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "echo: hello" {
		t.Errorf("Generate() = %q, want %q", text, "echo: hello")
	}
}

func TestGenerateComposesSystemPrompt(t *testing.T) {
	tests := []struct {
		name         string
		systemPrompt string
		prompt       string
		want         string
	}{
		{
			name:   "no system prompt sends raw prompt",
			prompt: "what is 2+2?",
			want:   "what is 2+2?",
		},
		{
			name:         "system prompt folded into effective prompt",
			systemPrompt: "Be terse.",
			prompt:       "what is 2+2?",
			want:         "System: Be terse.\n\nUser: what is 2+2?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := providertest.NewStub()
			g := newTestGateway(t, stub, config.BusyPolicyQueue)

			if _, err := g.Generate(context.Background(), Request{
				Prompt:       tt.prompt,
				SystemPrompt: tt.systemPrompt,
			}); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			prompts := stub.Sessions()[0].Prompts()
			if len(prompts) != 1 || prompts[0] != tt.want {
				t.Errorf("forwarded prompt = %v, want [%q]", prompts, tt.want)
			}
		})
	}
}

func TestGenerateForwardsOptionsVerbatim(t *testing.T) {
	stub := providertest.NewStub()
	g := newTestGateway(t, stub, config.BusyPolicyQueue)

	temp := 0.0
	maxTokens := 50
	if _, err := g.Generate(context.Background(), Request{
		Prompt:      "deterministic please",
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	opts := stub.Sessions()[0].Options()
	if len(opts) != 1 {
		t.Fatalf("recorded %d option sets, want 1", len(opts))
	}
	if opts[0].Temperature == nil || *opts[0].Temperature != 0.0 {
		t.Errorf("Temperature = %v, want 0.0", opts[0].Temperature)
	}
	if opts[0].MaxTokens == nil || *opts[0].MaxTokens != 50 {
		t.Errorf("MaxTokens = %v, want 50", opts[0].MaxTokens)
	}
}

func TestGenerateOmitsAbsentOptions(t *testing.T) {
	stub := providertest.NewStub()
	g := newTestGateway(t, stub, config.BusyPolicyQueue)

	if _, err := g.Generate(context.Background(), Request{Prompt: "defaults"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	opts := stub.Sessions()[0].Options()[0]
	if opts.Temperature != nil || opts.MaxTokens != nil {
		t.Errorf("options = %+v, want nil temperature and max tokens", opts)
	}
}

func TestGenerateSurfacesProviderError(t *testing.T) {
	stub := providertest.NewStub()
	genErr := &provider.GenerationError{Provider: "stub", Message: "boom"}
	g := newTestGateway(t, stub, config.BusyPolicyQueue)
	stub.SetRespondError(genErr)

	_, err := g.Generate(context.Background(), Request{Prompt: "hello"})

	var ge *provider.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("Generate() error = %v, want GenerationError", err)
	}
}

func TestResetReplacesSessionIdentity(t *testing.T) {
	stub := providertest.NewStub()
	g := newTestGateway(t, stub, config.BusyPolicyQueue)

	if _, err := g.Generate(context.Background(), Request{Prompt: "remember this"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	before := g.SessionID()
	if err := g.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	after := g.SessionID()

	if before == after {
		t.Errorf("session identity unchanged across reset: %q", before)
	}

	// The fresh session must not have seen any prior turn.
	if _, err := g.Generate(context.Background(), Request{Prompt: "fresh start"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	sessions := stub.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("created %d sessions, want 2", len(sessions))
	}
	got := sessions[1].Prompts()
	if len(got) != 1 || got[0] != "fresh start" {
		t.Errorf("post-reset session prompts = %v, want [%q]", got, "fresh start")
	}
	if !sessions[0].Closed() {
		t.Error("old session was not closed on reset")
	}
}

func TestResetKeepsOldSessionOnAllocationFailure(t *testing.T) {
	stub := providertest.NewStub()
	g := newTestGateway(t, stub, config.BusyPolicyQueue)
	before := g.SessionID()

	stub.SetSessionError(errors.New("allocation failed"))
	if err := g.Reset(context.Background()); err == nil {
		t.Fatal("Reset() error = nil, want allocation failure")
	}

	if g.SessionID() != before {
		t.Errorf("session replaced despite allocation failure")
	}
}

func TestConcurrentGenerationsNeverOverlap(t *testing.T) {
	stub := providertest.NewStub()
	stub.SetRespondDelay(20 * time.Millisecond)
	g := newTestGateway(t, stub, config.BusyPolicyQueue)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Generate(context.Background(), Request{Prompt: "race"}); err != nil {
				t.Errorf("Generate() error = %v", err)
			}
		}()
	}
	wg.Wait()

	sess := stub.Sessions()[0]
	if sess.Overlapped() {
		t.Error("two generations overlapped on the shared session")
	}
	if got := len(sess.Prompts()); got != 8 {
		t.Errorf("recorded %d prompts, want 8", got)
	}
}

func TestRejectPolicyReturnsSessionBusy(t *testing.T) {
	stub := providertest.NewStub()
	stub.SetRespondDelay(100 * time.Millisecond)
	g := newTestGateway(t, stub, config.BusyPolicyReject)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		_, _ = g.Generate(context.Background(), Request{Prompt: "slow"})
		close(done)
	}()

	<-started
	time.Sleep(20 * time.Millisecond) // let the first generation take the lock

	_, err := g.Generate(context.Background(), Request{Prompt: "impatient"})
	if !errors.Is(err, ErrSessionBusy) {
		t.Errorf("Generate() error = %v, want ErrSessionBusy", err)
	}
	<-done
}

func TestResetWaitsForInFlightGeneration(t *testing.T) {
	stub := providertest.NewStub()
	stub.SetRespondDelay(50 * time.Millisecond)
	g := newTestGateway(t, stub, config.BusyPolicyQueue)

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = g.Generate(context.Background(), Request{Prompt: "long running"})
	}()

	<-started
	time.Sleep(10 * time.Millisecond)

	if err := g.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if stub.Sessions()[0].Overlapped() {
		t.Error("reset raced an in-flight generation")
	}
}

func TestPreviewCutsOnRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short string untouched", "hello", 50, "hello"},
		{"ascii cut", "abcdefgh", 4, "abcd..."},
		{"multi-byte rune not split", "日本語のテキスト", 7, "日本..."},
		{"cut lands on boundary", "日本語", 6, "日本..."},
		{"emoji not split", "🙂🙂🙂", 5, "🙂..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preview(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("preview(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("preview(%q, %d) produced invalid UTF-8: %q", tt.in, tt.n, got)
			}
		})
	}
}
