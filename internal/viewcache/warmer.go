package viewcache

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/logger"
)

// Refresher recomputes and stores the views for a limit
type Refresher interface {
	Refresh(ctx context.Context, limit int) error
}

// Warmer periodically refreshes the cached views so requests rarely pay for a window scan
type Warmer struct {
	refresher Refresher
	cron      *cron.Cron
	spec      string
	limit     int
	timeout   time.Duration
}

// NewWarmer schedules a refresh of the views for limit on the cron spec
func NewWarmer(ctx context.Context, refresher Refresher, spec string, limit int, timeout time.Duration) (*Warmer, error) {
	w := &Warmer{
		refresher: refresher,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger.CronLogger{}),
			cron.WithChain(cron.SkipIfStillRunning(logger.CronLogger{}), cron.Recover(logger.CronLogger{})),
		),
		spec:    spec,
		limit:   limit,
		timeout: timeout,
	}

	if _, err := w.cron.AddFunc(spec, func() {
		if err := w.WarmOnce(ctx); err != nil {
			logger.WarnCtx(ctx, "View warm-up failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid warm schedule %q: %w", spec, err)
	}

	return w, nil
}

// WarmOnce refreshes the views now
func (w *Warmer) WarmOnce(ctx context.Context) error {
	// keep each run bounded
	rctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	return w.refresher.Refresh(rctx, w.limit)
}

// Start starts the scheduler
func (w *Warmer) Start() {
	w.cron.Start()
	logger.Info("View warmer started", zap.String("schedule", w.spec), zap.Int("limit", w.limit))
}

// Stop stops the scheduler and waits for a running refresh
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
}
