package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-relay/webhook"
)

// Handlers sets up the ingestion and status API routes
func Handlers(ctx context.Context, webhookService webhook.UseCase, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("webhook-relay-api", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Ingestion and status routes
	r.Post("/ingest/{subscription_id}", postIngest(webhookService).ServeHTTP)
	r.Get("/status/{webhook_id}", getStatus(webhookService).ServeHTTP)
	r.Get("/subscriptions/{subscription_id}/history", getHistory(webhookService).ServeHTTP)

	return r
}
