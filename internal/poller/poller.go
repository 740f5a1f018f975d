// Package poller provides the periodic refresh task that stands in for push
// notification. A task is bound to a context: cancelling the context stops
// the ticker, and an in-flight run completes with its result discarded.
package poller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Poller runs a refresh function on a fixed interval
type Poller struct {
	interval time.Duration
	logger   *logrus.Logger
}

// New creates a poller with the given interval
func New(interval time.Duration, logger *logrus.Logger) *Poller {
	return &Poller{interval: interval, logger: logger}
}

// Run executes fn immediately and then on every tick until ctx is
// cancelled. Errors from fn are logged and the loop continues; a failed
// poll never stops future ones.
func (p *Poller) Run(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil && ctx.Err() == nil {
		p.logger.WithError(err).Warn("Poll failed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Poller stopped")
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				p.logger.WithError(err).Warn("Poll failed")
			}
		}
	}
}
