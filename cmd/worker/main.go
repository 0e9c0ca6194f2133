package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/marcelsud/webhook-relay/config"
	"github.com/marcelsud/webhook-relay/delivery"
	"github.com/marcelsud/webhook-relay/subscription"
	subredis "github.com/marcelsud/webhook-relay/subscription/redis"
	"github.com/marcelsud/webhook-relay/webhook/backoff"
	whredis "github.com/marcelsud/webhook-relay/webhook/redis"
	"github.com/rs/zerolog"
)

/* The worker binary runs the asynchronous half of the system: the
 * delivery worker pool, the crash recovery sweeper, and the retention
 * pruner, all against the same Redis store the API writes to
 */

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "webhook-relay-worker").
		Logger()

	webhookRepo, err := whredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer webhookRepo.Close(ctx)

	subRepo, err := subredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer subRepo.Close(ctx)

	delays, err := cfg.BackoffDelays()
	if err != nil {
		return err
	}
	schedule, err := backoff.New(delays)
	if err != nil {
		return err
	}

	subCache := subscription.NewCache(subRepo, cfg.CacheTTL())
	deliverer := delivery.NewHTTPDeliverer(cfg.DeliveryTimeout())

	pool := delivery.NewPool(webhookRepo, subCache, deliverer, schedule, delivery.Config{
		Workers:      cfg.WorkerCount,
		PollInterval: cfg.PollInterval(),
	}, logger).WithHeartbeats(webhookRepo)

	sweeper, err := delivery.NewSweeper(webhookRepo, cfg.SweepInterval(), cfg.LivenessThreshold(), logger)
	if err != nil {
		return err
	}

	pruner, err := delivery.NewPruner(webhookRepo, cfg.PruneInterval(), cfg.Retention(), logger)
	if err != nil {
		return err
	}

	logger.Info().
		Int("workers", cfg.WorkerCount).
		Dur("delivery_timeout", cfg.DeliveryTimeout()).
		Dur("liveness_threshold", cfg.LivenessThreshold()).
		Dur("retention", cfg.Retention()).
		Msg("starting delivery engine")

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		pool.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		pruner.Run(ctx)
	}()

	wg.Wait()
	logger.Info().Msg("delivery engine stopped")

	return ctx.Err()
}
