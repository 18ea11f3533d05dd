package handlers

import (
	"context"
	"net/http"
	"time"
)

// AvailabilityChecker reports whether the model backend can serve.
// Satisfied by provider.Provider.
type AvailabilityChecker interface {
	Available(ctx context.Context) error
}

// healthStatus is the body of the health and readiness endpoints.
type healthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthHandler serves GET /health, a liveness probe that succeeds as
// long as the process is serving.
type HealthHandler struct{}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteNotFound(w)
		return
	}
	WriteJSON(w, http.StatusOK, healthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadyHandler serves GET /ready, a readiness probe that checks the
// model backend.
type ReadyHandler struct {
	checker AvailabilityChecker
}

// NewReadyHandler creates a readiness handler.
func NewReadyHandler(checker AvailabilityChecker) *ReadyHandler {
	return &ReadyHandler{checker: checker}
}

// ServeHTTP implements http.Handler.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteNotFound(w)
		return
	}

	if err := h.checker.Available(r.Context()); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, healthStatus{
			Status:    "unavailable",
			Message:   err.Error(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	WriteJSON(w, http.StatusOK, healthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
