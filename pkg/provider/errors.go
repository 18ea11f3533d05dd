package provider

import "fmt"

// UnavailableError indicates the model backend cannot serve requests at
// all: Apple Intelligence disabled, ineligible hardware, or an endpoint
// that is not reachable. At startup this error is fatal to the process.
type UnavailableError struct {
	// Provider is the backend name.
	Provider string

	// Reason describes why the backend is unavailable.
	Reason string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("provider %q unavailable: %s", e.Provider, e.Reason)
}

// GenerationError indicates the backend accepted a request but failed to
// produce text: a provider-side error or an option value the backend
// rejected. These are recoverable; the session is left unchanged.
type GenerationError struct {
	// Provider is the backend name.
	Provider string

	// Message is the backend's error message.
	Message string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("provider %q generation failed: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates the provider configuration is invalid.
type ConfigError struct {
	// Provider is the backend name.
	Provider string

	// Field is the configuration field that is invalid.
	Field string

	// Message describes the configuration error.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
