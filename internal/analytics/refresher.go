package analytics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ThresholdRefresher recomputes the high-velocity threshold on a fixed interval.
type ThresholdRefresher struct {
	policy   *SafetyStockPolicy
	interval time.Duration
}

func NewThresholdRefresher(policy *SafetyStockPolicy, interval time.Duration) *ThresholdRefresher {
	return &ThresholdRefresher{policy: policy, interval: interval}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
// A non-positive interval only performs the initial refresh.
func (r *ThresholdRefresher) Run(ctx context.Context) {
	r.refresh(ctx)

	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("threshold refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *ThresholdRefresher) refresh(ctx context.Context) {
	if _, err := r.policy.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Msg("threshold refresher: refresh failed")
	}
}
