// Package handlers implements the HTTP handlers for the completion
// gateway.
//
// The surface is deliberately tiny:
//
//   - POST /completion - generate text for a prompt
//   - POST /reset     - discard the conversation session
//   - GET  /health    - liveness probe
//   - GET  /ready     - readiness probe (backend availability)
//
// Every other method or path gets a 404 with a guidance message. All
// bodies use the CompletionResponse shape from the types package, so a
// client can always read `response` and `error` regardless of outcome.
//
// Failures are converted to well-formed JSON at this boundary; nothing
// below the handlers ever writes to the connection.
package handlers
