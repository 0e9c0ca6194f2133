package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/webhook-relay/config"
	httpchi "github.com/marcelsud/webhook-relay/internal/http/chi"
	"github.com/marcelsud/webhook-relay/metrics"
	"github.com/marcelsud/webhook-relay/subscription"
	subredis "github.com/marcelsud/webhook-relay/subscription/redis"
	"github.com/marcelsud/webhook-relay/webhook"
	whredis "github.com/marcelsud/webhook-relay/webhook/redis"
)

const TIMEOUT = 30 * time.Second

/* The API binary wires the ingestion side: subscription store + cache,
 * webhook store, service, and the chi router. Delivery runs in the
 * separate worker binary against the same Redis store
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	webhookRepo, err := whredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer webhookRepo.Close(ctx)

	subRepo, err := subredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer subRepo.Close(ctx)

	// Provision subscriptions from the YAML file; administration is external
	loader := subscription.NewLoader(subRepo)
	count, err := loader.Load(ctx, cfg.SubscriptionsFile)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Loaded %d subscriptions from %s\n", count, cfg.SubscriptionsFile)

	subCache := subscription.NewCache(subRepo, cfg.CacheTTL())
	service := webhook.NewService(webhookRepo, subCache)

	collector := metrics.NewRedisCollector(webhookRepo.GetClient())
	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(ctx)

	r := httpchi.Handlers(ctx, service, exporter.ServeHTTP())
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
