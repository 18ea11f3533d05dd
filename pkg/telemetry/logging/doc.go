// Package logging provides structured logging on top of log/slog.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.Info("request processed",
//	    "request_id", "req-123",
//	    "duration_ms", 1234,
//	)
//
// # Runtime level changes
//
// The logger's minimum level is backed by a slog.LevelVar, so it can be
// adjusted while the server runs:
//
//	logger.SetLevel("debug")
//
// Configuration hot reload uses this to change verbosity without a
// restart. Child loggers created with With share the parent's level.
package logging
