package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/rs/zerolog"
)

/* Sweeper periodically reclaims webhooks stuck in_progress beyond the
 * liveness threshold, reverting them to pending with due=now. This is
 * the sole mechanism that guarantees forward progress when a worker
 * dies mid-delivery. The threshold must exceed the delivery timeout by
 * a safety margin so a slow-but-alive delivery is never reclaimed
 */
type Sweeper struct {
	store     webhook.Sweeper
	interval  time.Duration
	threshold time.Duration
	logger    zerolog.Logger
}

// NewSweeper creates a crash recovery sweeper
func NewSweeper(store webhook.Sweeper, interval, threshold time.Duration, logger zerolog.Logger) (*Sweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive")
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("liveness threshold must be positive")
	}
	return &Sweeper{
		store:     store,
		interval:  interval,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// Run sweeps on a fixed interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("sweeping stalled webhooks")
			}
		}
	}
}

// SweepOnce reclaims all currently stalled webhooks and returns how many
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	now := time.Now()
	ids, err := s.store.ReclaimStalled(ctx, now.Add(-s.threshold), now)
	if err != nil {
		return 0, fmt.Errorf("reclaiming stalled webhooks: %w", err)
	}

	if len(ids) > 0 {
		s.logger.Warn().Strs("webhook_ids", ids).Msg("reclaimed stalled webhooks")
	}

	return len(ids), nil
}
