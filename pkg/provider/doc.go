// Package provider defines the abstraction over language model backends.
//
// # Overview
//
// The gateway never talks to a model directly. It holds a Provider, opens
// exactly one Session at a time, and replaces that session wholesale on
// reset. Everything model-specific lives behind these two interfaces, so
// the gateway is unit-testable with a deterministic stub.
//
// # Backends
//
// Two adapters ship with the server:
//
//  1. foundation - Apple Foundation Models, the on-device model that is
//     the reason this server exists. Only functional on macOS with Apple
//     Intelligence enabled; elsewhere it reports unavailable.
//  2. openai - any OpenAI-compatible endpoint (Ollama, LM Studio, vLLM),
//     with the conversation history carried client-side.
//
// # Error Handling
//
// The package defines three error types:
//
//   - UnavailableError: the backend cannot serve at all (startup-fatal)
//   - GenerationError: one request failed (recoverable, session intact)
//   - ConfigError: invalid backend configuration
package provider
