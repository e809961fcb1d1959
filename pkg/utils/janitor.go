package utils

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops expired entries and reports how many it dropped.
type Sweeper interface {
	Sweep() int
}

// RunJanitor sweeps every target each interval until ctx is done.
func RunJanitor(ctx context.Context, interval time.Duration, logger *zap.Logger, targets ...Sweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dropped := 0
			for _, t := range targets {
				dropped += t.Sweep()
			}
			if dropped > 0 {
				logger.Debug("expired session state dropped", zap.Int("entries", dropped))
			}
		}
	}
}
