// Package reconcile periodically rebuilds search shadows from the primary store.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/abgdnv/productcatalog/internal/service"
	applog "github.com/abgdnv/productcatalog/pkg/logger"
)

// Reindexer rewrites all search shadows.
type Reindexer interface {
	Reindex(ctx context.Context) (service.ReindexStats, error)
}

// Reconciler runs Reindex on a fixed interval.
type Reconciler struct {
	reindexer Reindexer
	interval  time.Duration
	onStartup bool
	logger    *slog.Logger
}

// NewReconciler creates a Reconciler. A zero interval disables the periodic run.
func NewReconciler(r Reindexer, interval time.Duration, onStartup bool, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		reindexer: r,
		interval:  interval,
		onStartup: onStartup,
		logger:    applog.Component(logger, "reconciler"),
	}
}

// Run blocks until ctx is cancelled. Reindex failures are logged and retried on the next tick.
func (r *Reconciler) Run(ctx context.Context) error {
	if r.onStartup {
		r.runOnce(ctx)
	}
	if r.interval <= 0 {
		r.logger.Info("Periodic reindex disabled")
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.logger.Info("Periodic reindex started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Periodic reindex stopped")
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reconciler) runOnce(ctx context.Context) {
	start := time.Now()
	stats, err := r.reindexer.Reindex(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Reindex failed", "error", err,
			"total", stats.Total, "indexed", stats.Indexed, "failed", stats.Failed)
		return
	}
	r.logger.InfoContext(ctx, "Reindex completed",
		"total", stats.Total, "indexed", stats.Indexed, "failed", stats.Failed, "duration", time.Since(start))
}
