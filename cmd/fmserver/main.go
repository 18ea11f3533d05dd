// fmserver is a local HTTP gateway in front of an on-device language model.
//
// It exposes a minimal completion API backed by Apple Foundation Models
// (or any OpenAI-compatible endpoint), maintaining a single ongoing
// conversation session:
//   - POST /completion generates text within the current session
//   - POST /reset discards the session and starts a fresh one
//
// Usage:
//
//	# Start server with default configuration
//	fmserver run
//
//	# Start with custom configuration file
//	fmserver run --config /path/to/config.yaml
//
//	# Validate config without starting the server
//	fmserver run --dry-run
//
//	# Show version information
//	fmserver version
package main

func main() {
	Execute()
}
