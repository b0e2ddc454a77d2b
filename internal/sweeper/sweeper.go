package sweeper

import (
	"context"
	"time"

	"adopte-server/pkg/logger"
)

// Cleaner is the sweep the runner drives on its schedule.
type Cleaner interface {
	CleanupExpiredConversations(ctx context.Context) (int, error)
}

// Runner periodically expires conversations whose deadline has passed.
// The sweep itself is idempotent, so overlapping runs across several API
// instances are harmless.
type Runner struct {
	cleaner  Cleaner
	interval time.Duration
	logger   *logger.Logger
}

func NewRunner(cleaner Cleaner, interval time.Duration, l *logger.Logger) *Runner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &Runner{cleaner: cleaner, interval: interval, logger: l}
}

// Start launches the sweep loop in its own goroutine. One sweep runs
// immediately so a restart does not postpone overdue expirations.
func (r *Runner) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *Runner) run(ctx context.Context) {
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Runner) sweep(ctx context.Context) {
	if _, err := r.cleaner.CleanupExpiredConversations(ctx); err != nil {
		r.logger.Errorf("expiry sweep failed: %v", err)
	}
}
