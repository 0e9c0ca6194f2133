package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/rs/zerolog"
)

// DefaultPruneBatchSize bounds how many webhooks one prune pass deletes at a time
const DefaultPruneBatchSize = 100

/* Pruner periodically deletes terminal webhooks (and their attempts)
 * older than the retention window. Deletion is batched so the store is
 * never blocked for long; webhooks still pending or in progress are
 * never touched regardless of age
 */
type Pruner struct {
	store     webhook.Pruner
	interval  time.Duration
	retention time.Duration
	batchSize int
	logger    zerolog.Logger
}

// NewPruner creates a retention pruner
func NewPruner(store webhook.Pruner, interval, retention time.Duration, logger zerolog.Logger) (*Pruner, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("prune interval must be positive")
	}
	if retention <= 0 {
		return nil, fmt.Errorf("retention window must be positive")
	}
	return &Pruner{
		store:     store,
		interval:  interval,
		retention: retention,
		batchSize: DefaultPruneBatchSize,
		logger:    logger,
	}, nil
}

// Run prunes on a fixed interval until the context is cancelled
func (p *Pruner) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.PruneOnce(ctx); err != nil {
				p.logger.Error().Err(err).Msg("pruning expired webhooks")
			}
		}
	}
}

// PruneOnce deletes expired terminal webhooks batch by batch until none remain
func (p *Pruner) PruneOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-p.retention)
	total := 0

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		pruned, err := p.store.PruneOlderThan(ctx, cutoff, p.batchSize)
		total += pruned
		if err != nil {
			return total, fmt.Errorf("pruning batch: %w", err)
		}
		if pruned < p.batchSize {
			break
		}
	}

	if total > 0 {
		p.logger.Info().Int("pruned", total).Msg("pruned expired webhooks")
	}

	return total, nil
}
