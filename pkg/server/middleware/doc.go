// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// Middleware functions are chained in a specific order:
//
//	handler = Recovery(RequestID(Logging(CORS(cfg)(mux))))
//
// Order (outermost to innermost):
//  1. Recovery: recover from panics, return a 500 JSON error
//  2. RequestID: generate and propagate a request ID (UUID v4)
//  3. Logging: log request/response with method, path, status, latency
//  4. CORS: add permissive CORS headers, answer preflight with 204
//
// There is deliberately no per-request timeout middleware: a completion
// blocks until the model returns, and the server's write timeout is the
// only backstop.
package middleware
