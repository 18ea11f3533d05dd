// Package config provides configuration management for the completion
// gateway.
//
// Configuration is loaded from a YAML file, filled in with defaults,
// overridden by environment variables, and validated. A small dynamic
// subset (log level and format) can be hot-reloaded through a file
// watcher without restarting the server.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// Or through the process-wide singleton used by the CLI:
//
//	if err := config.Initialize("config.yaml"); err != nil { ... }
//	cfg := config.GetConfig()
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention FMSERVER_SECTION_FIELD
// and always take precedence over file values. For example:
//
//   - FMSERVER_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - FMSERVER_PROVIDER_BACKEND overrides provider.backend
//   - FMSERVER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Hot Reload
//
// A Watcher built on fsnotify re-reads the file on change, debounced,
// and applies the dynamic subset. A reload that fails validation is
// logged and discarded; the running configuration stays in effect.
package config
