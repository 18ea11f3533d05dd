package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/gateway"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/server/middleware"
	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/server/types"
)

// NotFoundMessage is the guidance returned for any unknown method or path.
const NotFoundMessage = "Use POST /completion or /reset"

// CompletionGateway is the slice of the gateway the HTTP layer needs.
type CompletionGateway interface {
	Generate(ctx context.Context, req gateway.Request) (string, error)
	Reset(ctx context.Context) error
}

// CompletionHandler serves POST /completion.
type CompletionHandler struct {
	gateway      CompletionGateway
	maxBodyBytes int64
}

// NewCompletionHandler creates a completion handler. maxBodyBytes bounds
// how much of the request body is read.
func NewCompletionHandler(gw CompletionGateway, maxBodyBytes int64) *CompletionHandler {
	return &CompletionHandler{gateway: gw, maxBodyBytes: maxBodyBytes}
}

// ServeHTTP implements http.Handler.
func (h *CompletionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if r.Method != http.MethodPost {
		WriteNotFound(w)
		return
	}

	req, err := parseCompletionRequest(r, h.maxBodyBytes)
	if err != nil {
		slog.WarnContext(ctx, "rejected completion request",
			"request_id", requestID,
			"error", err,
		)
		WriteJSON(w, http.StatusBadRequest, types.NewErrorResponse(requestErrorMessage(err)))
		return
	}

	start := time.Now()
	text, err := h.gateway.Generate(ctx, gateway.Request{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, gateway.ErrSessionBusy) {
			status = http.StatusServiceUnavailable
		}
		slog.ErrorContext(ctx, "completion failed",
			"request_id", requestID,
			"error", err,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		WriteJSON(w, status, types.NewErrorResponse(err.Error()))
		return
	}

	WriteJSON(w, http.StatusOK, types.NewSuccessResponse(text))
}

// ResetHandler serves POST /reset.
type ResetHandler struct {
	gateway CompletionGateway
}

// NewResetHandler creates a reset handler.
func NewResetHandler(gw CompletionGateway) *ResetHandler {
	return &ResetHandler{gateway: gw}
}

// ServeHTTP implements http.Handler.
func (h *ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		WriteNotFound(w)
		return
	}

	if err := h.gateway.Reset(ctx); err != nil {
		slog.ErrorContext(ctx, "session reset failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		WriteJSON(w, http.StatusInternalServerError, types.NewErrorResponse(err.Error()))
		return
	}

	WriteJSON(w, http.StatusOK, types.NewSuccessResponse("Session reset"))
}

// NotFoundHandler answers every unroutable request with the guidance body.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w)
	})
}

// requestError wraps a body-level failure with the message the client
// should see.
type requestError struct {
	message string
	cause   error
}

func (e *requestError) Error() string { return e.message }
func (e *requestError) Unwrap() error { return e.cause }

// requestErrorMessage extracts the client-facing message for a parse or
// validation failure.
func requestErrorMessage(err error) string {
	var re *requestError
	if errors.As(err, &re) {
		return re.message
	}
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// parseCompletionRequest reads and validates a completion request body.
// The body is capped at maxBodyBytes to bound memory.
func parseCompletionRequest(r *http.Request, maxBodyBytes int64) (*types.CompletionRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &requestError{message: "Failed to read request body", cause: err}
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, &requestError{
			message: fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBodyBytes),
		}
	}

	var req types.CompletionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &requestError{message: "Invalid JSON", cause: err}
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// WriteJSON writes a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// WriteNotFound writes the 404 guidance response.
func WriteNotFound(w http.ResponseWriter) {
	WriteJSON(w, http.StatusNotFound, types.NewErrorResponse(NotFoundMessage))
}
