// Package transcript records completed generations to SQLite.
//
// A Store owns the database; a Recorder sits in front of it and writes
// asynchronously so completion responses never wait on disk; a Pruner
// deletes entries past the retention window on a cron schedule.
//
//	store, err := transcript.NewStore(cfg.Transcript.Path)
//	rec := transcript.NewRecorder(store, transcript.RecorderConfig{
//	    AsyncBuffer: cfg.Transcript.AsyncBuffer,
//	}, logger)
//	gw, err := gateway.New(ctx, prov, cfg, gateway.WithRecorder(rec))
//
// Recording is best-effort: entries are dropped when the buffer is
// full, and write failures are logged, never surfaced to clients.
package transcript
