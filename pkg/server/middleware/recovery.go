package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/server/types"
)

// Recovery recovers from panics in HTTP handlers and returns a 500
// response in the gateway's JSON error format. The panic and stack trace
// are logged; internal details are not exposed to clients.
//
// Example usage:
//
//	handler = middleware.Recovery(handler)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(r.Context())
				stack := debug.Stack()

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(stack),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(
					types.NewErrorResponse("An internal error occurred. Please try again later."),
				)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
