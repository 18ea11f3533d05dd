package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes transcript entries older than the retention window on
// a cron schedule.
type Pruner struct {
	store  *Store
	config PrunerConfig
	cron   *cron.Cron
	mu     sync.Mutex
	logger *slog.Logger

	running bool
}

// PrunerConfig configures retention pruning.
type PrunerConfig struct {
	// RetentionDays is how long entries are kept. Zero disables
	// pruning entirely.
	RetentionDays int

	// Schedule is a standard cron expression for when pruning runs,
	// e.g. "0 3 * * *" for daily at 3 AM. Empty disables the
	// scheduler; Prune can still be called directly.
	Schedule string
}

// NewPruner creates a pruner for store.
func NewPruner(store *Store, cfg PrunerConfig, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:  store,
		config: cfg,
		cron:   cron.New(),
		logger: logger.With("component", "transcript.pruner"),
	}
}

// Prune deletes entries older than the retention window once and
// returns the number deleted. A zero retention window is a no-op.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
	return p.store.DeleteOlderThan(ctx, cutoff)
}

// Start begins scheduled pruning. It returns immediately; pruning runs
// in the cron scheduler's goroutine until ctx is cancelled or Stop is
// called. If no schedule or retention is configured it does nothing.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.Schedule == "" || p.config.RetentionDays <= 0 {
		p.logger.Info("transcript pruning not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(p.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.config.Schedule, err)
	}

	_, err := p.cron.AddFunc(p.config.Schedule, func() {
		p.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("transcript pruner started",
		"schedule", p.config.Schedule,
		"retention_days", p.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// run executes one pruning cycle.
func (p *Pruner) run(ctx context.Context) {
	deleted, err := p.Prune(ctx)
	if err != nil {
		p.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		p.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	}
}

// Stop halts scheduled pruning and waits for a running cycle to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	ctx := p.cron.Stop()
	<-ctx.Done()
	p.running = false

	p.logger.Info("transcript pruner stopped")
}

// IsRunning reports whether the scheduler is active.
func (p *Pruner) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
