package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-relay/subscription"
	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/marcelsud/webhook-relay/webhook/backoff"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is the sleep between polls when no work is due
const DefaultPollInterval = 500 * time.Millisecond

/* Store is the slice of the webhook repository the pool needs:
 * the atomic claim plus the conditional finalize transitions
 */
type Store interface {
	webhook.Claimer
}

// HeartbeatSetter reports worker liveness; optional
type HeartbeatSetter interface {
	SetWorkerHeartbeat(ctx context.Context, workerID, status string) error
}

// Config holds the pool's tunables
type Config struct {
	Workers      int
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

/* Pool runs concurrent delivery workers. Each worker independently
 * claims one due webhook at a time, performs the outbound call, records
 * the attempt, and finalizes or reschedules. There is no coordinator:
 * the store's conditional claim is the only synchronization
 */
type Pool struct {
	store      Store
	subs       subscription.Reader
	deliverer  Deliverer
	schedule   backoff.Schedule
	heartbeats HeartbeatSetter
	cfg        Config
	logger     zerolog.Logger
}

// NewPool creates a delivery worker pool
func NewPool(store Store, subs subscription.Reader, deliverer Deliverer, schedule backoff.Schedule, cfg Config, logger zerolog.Logger) *Pool {
	return &Pool{
		store:     store,
		subs:      subs,
		deliverer: deliverer,
		schedule:  schedule,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// WithHeartbeats enables worker liveness reporting
func (p *Pool) WithHeartbeats(hb HeartbeatSetter) *Pool {
	p.heartbeats = hb
	return p
}

// Run starts the workers and blocks until the context is cancelled
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		workerID := fmt.Sprintf("worker-%s", uuid.New().String()[:8])
		go func() {
			defer wg.Done()
			p.runWorker(ctx, workerID)
		}()
	}

	wg.Wait()
	return ctx.Err()
}

func (p *Pool) runWorker(ctx context.Context, workerID string) {
	logger := p.logger.With().Str("worker_id", workerID).Logger()
	logger.Info().Msg("delivery worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("delivery worker stopped")
			return
		default:
		}

		p.heartbeat(ctx, workerID, "idle")

		wh, ok, err := p.store.ClaimDue(ctx, time.Now())
		if err != nil {
			// Infrastructure error: back off and retry the claim, never the webhook
			logger.Error().Err(err).Msg("claiming due webhook")
			p.sleep(ctx, p.cfg.PollInterval)
			continue
		}
		if !ok {
			p.sleep(ctx, p.cfg.PollInterval)
			continue
		}

		p.heartbeat(ctx, workerID, "delivering")
		p.process(ctx, logger, wh)
	}
}

/* process performs one claimed delivery end to end: resolve the
 * subscription, make the outbound call, record the attempt, and apply
 * the resulting state transition
 */
func (p *Pool) process(ctx context.Context, logger zerolog.Logger, wh webhook.Webhook) {
	defer func() {
		if rec := recover(); rec != nil {
			// The claim stays in_progress; the sweeper reclaims it
			logger.Error().Interface("panic", rec).Str("webhook_id", wh.ID).Msg("delivery worker panic")
		}
	}()

	logger = logger.With().Str("webhook_id", wh.ID).Int("attempt", wh.RetryCount+1).Logger()

	sub, err := p.subs.Get(ctx, wh.SubscriptionID)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			// No target exists anymore; record the outcome and fail terminally
			p.finishAttempt(ctx, logger, wh, Result{ErrorDetail: "subscription no longer exists"}, true)
			return
		}
		logger.Error().Err(err).Msg("resolving subscription")
		if err := p.store.ScheduleRetry(ctx, wh.ID, time.Now()); err != nil {
			logger.Error().Err(err).Msg("releasing claim after store error")
		}
		return
	}

	var result Result
	if !sub.IsActive {
		// Short-circuit without a network call; the subscription may come back
		result = Result{ErrorDetail: "subscription inactive"}
	} else {
		result = p.deliverer.Deliver(ctx, sub, wh)
	}

	p.finishAttempt(ctx, logger, wh, result, false)
}

func (p *Pool) finishAttempt(ctx context.Context, logger zerolog.Logger, wh webhook.Webhook, result Result, terminal bool) {
	attempt := webhook.DeliveryAttempt{
		ID:            uuid.New().String(),
		WebhookID:     wh.ID,
		AttemptNumber: wh.RetryCount + 1,
		StatusCode:    result.StatusCode,
		ErrorDetail:   webhook.TruncateErrorDetail(result.ErrorDetail),
		IsSuccess:     result.Success,
		Timestamp:     time.Now(),
	}

	newCount, err := p.store.RecordAttempt(ctx, wh.ID, attempt)
	if err != nil {
		// Attempt not recorded and webhook still in_progress; the sweeper
		// reverts it and the next pickup reuses this attempt number
		logger.Error().Err(err).Msg("recording delivery attempt")
		return
	}

	switch {
	case result.Success:
		if err := p.store.MarkDelivered(ctx, wh.ID); err != nil {
			logger.Error().Err(err).Msg("marking webhook delivered")
			return
		}
		logger.Info().Msg("webhook delivered")

	case terminal:
		if err := p.store.MarkFailed(ctx, wh.ID); err != nil {
			logger.Error().Err(err).Msg("marking webhook failed")
			return
		}
		logger.Warn().Str("error_detail", attempt.ErrorDetail).Msg("webhook failed terminally")

	default:
		due, ok := p.schedule.NextDue(time.Now(), newCount)
		if !ok {
			if err := p.store.MarkFailed(ctx, wh.ID); err != nil {
				logger.Error().Err(err).Msg("marking webhook failed")
				return
			}
			logger.Warn().Int("attempts", newCount).Msg("webhook failed after exhausting retries")
			return
		}

		if err := p.store.ScheduleRetry(ctx, wh.ID, due); err != nil {
			logger.Error().Err(err).Msg("scheduling retry")
			return
		}
		logger.Info().Time("next_attempt_due", due).Str("error_detail", attempt.ErrorDetail).Msg("delivery failed, retry scheduled")
	}
}

func (p *Pool) heartbeat(ctx context.Context, workerID, status string) {
	if p.heartbeats == nil {
		return
	}
	if err := p.heartbeats.SetWorkerHeartbeat(ctx, workerID, status); err != nil {
		p.logger.Debug().Err(err).Str("worker_id", workerID).Msg("setting heartbeat")
	}
}

func (p *Pool) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
