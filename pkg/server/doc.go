// Package server provides the HTTP front end of the completion gateway.
//
// It ties together the handlers, middleware, gateway, and telemetry, and
// manages server lifecycle: start, graceful shutdown, and OS signals
// (SIGTERM, SIGINT).
//
// # Routes
//
//   - POST /completion - generate text for a prompt
//   - POST /reset     - discard the conversation session
//   - GET  /health    - liveness probe
//   - GET  /ready     - readiness probe (backend availability)
//   - GET  /metrics   - Prometheus metrics (when enabled)
//
// Anything else, any method, answers 404 with a JSON guidance body.
//
// # Middleware Chain
//
// Requests pass through Recovery, RequestID, Logging, and CORS before
// reaching the mux. CORS answers preflight OPTIONS requests with 204 for
// every path, so browser clients work without special-casing routes.
//
// # Shutdown
//
// On SIGTERM/SIGINT or context cancellation the server stops accepting
// connections and waits up to the configured shutdown timeout for
// in-flight requests, which matters here because a generation can run
// for a long time.
package server
