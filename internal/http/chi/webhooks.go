package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-relay/webhook"
)

/* HTTP layer DTOs for the ingestion and status API
 * Separate from domain entities to avoid leaking internal structure
 */

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ingestResponse represents the API response when a webhook is accepted
type ingestResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// attemptResponse represents one delivery attempt in the API
type attemptResponse struct {
	AttemptNumber int    `json:"attempt_number"`
	StatusCode    *int   `json:"status_code"`
	ErrorDetail   string `json:"error_detail,omitempty"`
	IsSuccess     bool   `json:"is_success"`
	Timestamp     string `json:"timestamp"`
}

// statusResponse represents a webhook's current state and attempt history
type statusResponse struct {
	ID             string            `json:"id"`
	SubscriptionID string            `json:"subscription_id"`
	EventType      string            `json:"event_type,omitempty"`
	Status         string            `json:"status"`
	RetryCount     int               `json:"retry_count"`
	NextAttemptDue *string           `json:"next_attempt_due,omitempty"`
	CreatedAt      string            `json:"created_at"`
	Attempts       []attemptResponse `json:"delivery_attempts"`
}

// historyResponse represents a page of webhooks for a subscription
type historyResponse struct {
	Webhooks []historyItem `json:"webhooks"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
}

type historyItem struct {
	ID         string `json:"id"`
	EventType  string `json:"event_type,omitempty"`
	Status     string `json:"status"`
	RetryCount int    `json:"retry_count"`
	CreatedAt  string `json:"created_at"`
}

// postIngest handles POST /ingest/{subscription_id}
func postIngest(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subscriptionID := chi.URLParam(r, "subscription_id")
		if subscriptionID == "" {
			http.Error(w, "subscription_id is required", http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		eventType := r.URL.Query().Get("event_type")
		signatureHeader := r.Header.Get("X-Hub-Signature-256")

		id, err := webhookService.Ingest(r.Context(), subscriptionID, eventType, body, signatureHeader)
		if err != nil {
			writeIngestError(w, err)
			return
		}

		// 202 Accepted: delivery happens asynchronously
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(ingestResponse{ID: id, Status: "accepted"})
	})
}

// getStatus handles GET /status/{webhook_id}
func getStatus(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookID := chi.URLParam(r, "webhook_id")

		wh, attempts, err := webhookService.Status(r.Context(), webhookID)
		if err != nil {
			if errors.Is(err, webhook.ErrNotFound) {
				http.Error(w, "webhook not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := statusResponse{
			ID:             wh.ID,
			SubscriptionID: wh.SubscriptionID,
			EventType:      wh.EventType,
			Status:         wh.Status.String(),
			RetryCount:     wh.RetryCount,
			CreatedAt:      wh.CreatedAt.Format(time.RFC3339),
			Attempts:       make([]attemptResponse, 0, len(attempts)),
		}
		if !wh.NextAttemptDue.IsZero() {
			due := wh.NextAttemptDue.Format(time.RFC3339)
			resp.NextAttemptDue = &due
		}
		for _, attempt := range attempts {
			resp.Attempts = append(resp.Attempts, attemptResponse{
				AttemptNumber: attempt.AttemptNumber,
				StatusCode:    attempt.StatusCode,
				ErrorDetail:   attempt.ErrorDetail,
				IsSuccess:     attempt.IsSuccess,
				Timestamp:     attempt.Timestamp.Format(time.RFC3339),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// getHistory handles GET /subscriptions/{subscription_id}/history
func getHistory(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subscriptionID := chi.URLParam(r, "subscription_id")

		page := parseQueryInt(r, "page", 1)
		if page < 1 {
			page = 1
		}
		limit := parseQueryInt(r, "limit", defaultHistoryLimit)
		if limit < 1 || limit > maxHistoryLimit {
			limit = defaultHistoryLimit
		}

		webhooks, err := webhookService.History(r.Context(), subscriptionID, limit, (page-1)*limit)
		if err != nil {
			if errors.Is(err, webhook.ErrSubscriptionNotFound) {
				http.Error(w, "subscription not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := historyResponse{
			Webhooks: make([]historyItem, 0, len(webhooks)),
			Page:     page,
			Limit:    limit,
		}
		for _, wh := range webhooks {
			resp.Webhooks = append(resp.Webhooks, historyItem{
				ID:         wh.ID,
				EventType:  wh.EventType,
				Status:     wh.Status.String(),
				RetryCount: wh.RetryCount,
				CreatedAt:  wh.CreatedAt.Format(time.RFC3339),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// writeIngestError maps admission errors to HTTP status codes
func writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, webhook.ErrSubscriptionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, webhook.ErrSubscriptionInactive),
		errors.Is(err, webhook.ErrEventTypeRejected),
		errors.Is(err, webhook.ErrSignatureInvalid):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, webhook.ErrMalformedPayload):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseQueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
