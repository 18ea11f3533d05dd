package transcript

import (
	"time"
	"unicode/utf8"
)

// Entry is one recorded completion exchange.
type Entry struct {
	// ID is a unique identifier for the entry.
	ID string

	// SessionID identifies the conversation session the exchange
	// belongs to. Entries before and after a reset carry different
	// session IDs.
	SessionID string

	// Prompt is the composed prompt sent to the model, truncated to
	// MaxFieldLength.
	Prompt string

	// Response is the generated text, truncated to MaxFieldLength.
	Response string

	// Status is "success" or "error".
	Status string

	// Error holds the provider error message for failed generations.
	Error string

	// LatencyMS is the generation latency in milliseconds.
	LatencyMS int64

	// CreatedAt is when the exchange completed.
	CreatedAt time.Time
}

// MaxFieldLength is the maximum stored length for prompt and response
// text. Longer values are truncated before writing.
const MaxFieldLength = 2000

// truncate cuts s to at most max bytes on a rune boundary, so stored
// text stays valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
