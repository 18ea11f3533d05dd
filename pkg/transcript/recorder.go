package transcript

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Saver is the storage seam the recorder writes through. Satisfied by
// Store.
type Saver interface {
	Save(ctx context.Context, e *Entry) error
}

// Recorder writes transcript entries asynchronously so a slow disk
// never blocks a completion response. Entries are dropped (and
// counted) when the buffer is full.
type Recorder struct {
	store     Saver
	entryChan chan *Entry
	done      chan struct{}
	wg        sync.WaitGroup
	logger    *slog.Logger
	mu        sync.Mutex
	dropped   int64
	writeErrs int64
}

// RecorderConfig configures the async recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the write channel buffer.
	// Default: 256
	AsyncBuffer int
}

// NewRecorder creates a recorder on top of store and starts its
// background writer.
func NewRecorder(store Saver, cfg RecorderConfig, logger *slog.Logger) *Recorder {
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		store:     store,
		entryChan: make(chan *Entry, cfg.AsyncBuffer),
		done:      make(chan struct{}),
		logger:    logger.With("component", "transcript.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record enqueues one completed exchange. It never blocks: if the
// buffer is full the entry is dropped and the drop is logged.
func (r *Recorder) Record(sessionID, prompt, response, status, errMsg string, latency time.Duration) {
	entry := &Entry{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Prompt:    prompt,
		Response:  response,
		Status:    status,
		Error:     errMsg,
		LatencyMS: latency.Milliseconds(),
		CreatedAt: time.Now(),
	}

	select {
	case r.entryChan <- entry:
	case <-r.done:
	default:
		r.mu.Lock()
		r.dropped++
		dropped := r.dropped
		r.mu.Unlock()
		r.logger.Warn("transcript buffer full, dropping entry",
			"session_id", sessionID,
			"dropped_total", dropped,
		)
	}
}

// Dropped returns the number of entries dropped due to a full buffer.
func (r *Recorder) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close drains pending entries and stops the background writer.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}

// worker drains the entry channel and writes entries to the store.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case entry := <-r.entryChan:
			r.write(entry)

		case <-r.done:
			// Drain remaining entries before exit.
			for {
				select {
				case entry := <-r.entryChan:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.store.Save(ctx, entry); err != nil {
		r.mu.Lock()
		r.writeErrs++
		r.mu.Unlock()
		r.logger.Error("failed to write transcript entry",
			"entry_id", entry.ID,
			"error", err,
		)
	}
}
