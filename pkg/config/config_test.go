package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.WriteTimeout != 5*time.Minute {
		t.Errorf("WriteTimeout = %v, want 5m (generation can be slow)", cfg.Server.WriteTimeout)
	}
	if cfg.Provider.Backend != "foundation" {
		t.Errorf("Backend = %q", cfg.Provider.Backend)
	}
	if cfg.Gateway.BusyPolicy != BusyPolicyQueue {
		t.Errorf("BusyPolicy = %q", cfg.Gateway.BusyPolicy)
	}
	if !cfg.Server.CORS.Enabled || cfg.Server.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("CORS defaults = %+v", cfg.Server.CORS)
	}
	if !cfg.Transcript.Enabled || cfg.Transcript.Path != "data/transcripts.db" {
		t.Errorf("Transcript defaults = %+v", cfg.Transcript)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:9090"
provider:
  backend: openai
  openai:
    model: llama3
    base_url: "http://localhost:11434/v1"
gateway:
  busy_policy: reject
telemetry:
  logging:
    level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:9090" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Provider.Backend != "openai" || cfg.Provider.OpenAI.Model != "llama3" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Gateway.BusyPolicy != BusyPolicyReject {
		t.Errorf("BusyPolicy = %q", cfg.Gateway.BusyPolicy)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Telemetry.Logging.Level)
	}
	// Unset fields still get defaults.
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
}

func TestLoadConfigExplicitDisableSurvives(t *testing.T) {
	path := writeConfigFile(t, `
server:
  cors:
    enabled: false
transcript:
  enabled: false
telemetry:
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.CORS.Enabled {
		t.Error("CORS re-enabled despite explicit enabled: false")
	}
	if cfg.Transcript.Enabled {
		t.Error("transcript re-enabled despite explicit enabled: false")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics re-enabled despite explicit enabled: false")
	}
	// Sibling fields still get their defaults.
	if cfg.Transcript.Path != DefaultTranscriptPath {
		t.Errorf("Transcript.Path = %q", cfg.Transcript.Path)
	}
	if cfg.Telemetry.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q", cfg.Telemetry.Metrics.Path)
	}
}

func TestLoadConfigPartialSectionKeepsEnabledDefault(t *testing.T) {
	path := writeConfigFile(t, `
server:
  cors:
    allowed_origins: ["http://localhost:3000"]
transcript:
  retention_days: 7
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !cfg.Server.CORS.Enabled {
		t.Error("customizing allowed_origins must not switch CORS off")
	}
	if got := cfg.Server.CORS.AllowedOrigins; len(got) != 1 || got[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", got)
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		t.Error("AllowedMethods default lost")
	}
	if !cfg.Transcript.Enabled || cfg.Transcript.RetentionDays != 7 {
		t.Errorf("Transcript = %+v", cfg.Transcript)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(unwrapAll(err)) {
		t.Errorf("error does not unwrap to not-exist: %v", err)
	}
}

func unwrapAll(err error) error {
	for {
		next, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		err = next.Unwrap()
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a map")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:9090"
`)

	t.Setenv("FMSERVER_SERVER_LISTEN_ADDRESS", "127.0.0.1:7070")
	t.Setenv("FMSERVER_PROVIDER_BACKEND", "openai")
	t.Setenv("FMSERVER_PROVIDER_OPENAI_MODEL", "gpt-4o")
	t.Setenv("FMSERVER_GATEWAY_BUSY_POLICY", "reject")
	t.Setenv("FMSERVER_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("FMSERVER_TRANSCRIPT_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:7070" {
		t.Errorf("env override lost: ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Provider.Backend != "openai" || cfg.Provider.OpenAI.Model != "gpt-4o" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Gateway.BusyPolicy != BusyPolicyReject {
		t.Errorf("BusyPolicy = %q", cfg.Gateway.BusyPolicy)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Transcript.Enabled {
		t.Error("transcript still enabled despite env override")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.ListenAddress = "not-an-address"
	cfg.Provider.Backend = "llamacpp"
	cfg.Gateway.BusyPolicy = "block"
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if len(ve.Errors) != 4 {
		t.Errorf("got %d errors, want 4: %v", len(ve.Errors), ve)
	}

	fields := make(map[string]bool)
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{
		"server.listen_address",
		"provider.backend",
		"gateway.busy_policy",
		"telemetry.logging.level",
	} {
		if !fields[want] {
			t.Errorf("missing error for %s", want)
		}
	}
}

func TestValidateRejectsBadCronSchedule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transcript.PruneSchedule = "every day at 3"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "transcript.prune_schedule") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateOpenAIRequiresModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.Backend = "openai"
	cfg.Provider.OpenAI.Model = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "provider.openai.model") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReloadConfigKeepsOldOnFailure(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:9090"
`)

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	SetConfig(cfg)

	// Break the file, then reload.
	if err := os.WriteFile(path, []byte("server: [broken"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := ReloadConfig(path); err == nil {
		t.Fatal("expected reload error")
	}

	if got := GetConfig().Server.ListenAddress; got != "127.0.0.1:9090" {
		t.Errorf("config replaced despite failed reload: %q", got)
	}
}
