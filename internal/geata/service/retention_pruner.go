package service

import (
	"context"
	"log"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

// RetentionPruner periodically deletes completed commands and audit events
// older than a configurable retention period.  Queued commands are never
// touched: a device can be offline for a long time and must still receive
// its backlog when it comes back.
//
// A retention of 0 disables pruning entirely.
type RetentionPruner struct {
	commands  store.CommandStore
	events    store.EventStore
	retention time.Duration
	interval  time.Duration
	logger    *log.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// PrunerConfig holds the parameters for NewRetentionPruner.
type PrunerConfig struct {
	// RetentionDays is how many days of completed commands and events to
	// keep.  0 means keep everything (pruner will not start).
	RetentionDays int

	// IntervalHours is how often the pruner runs.  Defaults to 6.
	IntervalHours int
}

// NewRetentionPruner creates a pruner but does not start it.
// Call Start to begin the background loop.
func NewRetentionPruner(cs store.CommandStore, es store.EventStore, cfg PrunerConfig, logger *log.Logger) *RetentionPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &RetentionPruner{
		commands:  cs,
		events:    es,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start begins the background pruning loop.  It runs an immediate prune on
// startup, then repeats on the configured interval.  The loop exits when
// ctx is cancelled or Stop is called.
func (p *RetentionPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Printf("retention pruner disabled (retention=0)")
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Printf("retention pruner started (retention=%dd, interval=%dh)",
		int(p.retention.Hours()/24), int(p.interval.Hours()))
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *RetentionPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *RetentionPruner) loop(ctx context.Context) {
	defer close(p.done)

	// Run immediately on startup to clean up any backlog.
	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *RetentionPruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-p.retention)

	cmds, err := p.commands.PruneCompletedBefore(ctx, cutoff)
	if err != nil {
		p.logger.Printf("command prune error: %v", err)
	} else if cmds > 0 {
		p.logger.Printf("command prune: deleted %d completed commands older than %s",
			cmds, cutoff.Format(time.RFC3339))
	}

	events, err := p.events.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Printf("event prune error: %v", err)
	} else if events > 0 {
		p.logger.Printf("event prune: deleted %d events older than %s",
			events, cutoff.Format(time.RFC3339))
	}
}
