// Package types defines the JSON wire format shared by handlers and
// middleware.
package types

import "fmt"

// CompletionRequest is the body of POST /completion.
type CompletionRequest struct {
	// Prompt is the user's question or instruction. Required, non-empty.
	Prompt string `json:"prompt"`

	// SystemPrompt optionally sets behavior or role for the model.
	SystemPrompt string `json:"systemPrompt,omitempty"`

	// Temperature controls randomness, conventionally 0.0 to 2.0. The
	// gateway forwards it verbatim without enforcing the range.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens bounds the response length. Must be positive when set.
	MaxTokens *int `json:"maxTokens,omitempty"`
}

// Validate checks required fields and constraints. It mirrors what the
// gateway would reject, so invalid requests never reach the provider.
func (r *CompletionRequest) Validate() error {
	if r.Prompt == "" {
		return &ValidationError{Field: "prompt", Message: "prompt is required and must be non-empty"}
	}
	if r.MaxTokens != nil && *r.MaxTokens <= 0 {
		return &ValidationError{Field: "maxTokens", Message: "maxTokens must be positive"}
	}
	return nil
}

// CompletionResponse is the body of every JSON response the server
// writes. Both fields are always present; exactly one is meaningful.
// Success carries a non-empty Response and a null Error, failure carries
// an empty Response and a non-null Error.
type CompletionResponse struct {
	Response string  `json:"response"`
	Error    *string `json:"error"`
}

// NewSuccessResponse builds a success body.
func NewSuccessResponse(text string) *CompletionResponse {
	return &CompletionResponse{Response: text}
}

// NewErrorResponse builds an error body.
func NewErrorResponse(message string) *CompletionResponse {
	return &CompletionResponse{Error: &message}
}

// ValidationError represents a request validation failure.
type ValidationError struct {
	// Field is the name of the invalid field.
	Field string

	// Message describes what is invalid about the field.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}
