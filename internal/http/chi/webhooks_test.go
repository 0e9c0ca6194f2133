package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/marcelsud/webhook-relay/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPostIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Ingest", mock.Anything, "sub-1", "order.created", []byte(`{"order_id": 42}`), "sha256=abc").Return("webhook-123", nil)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodPost, "/ingest/sub-1?event_type=order.created", bytes.NewBufferString(`{"order_id": 42}`))
		req.Header.Set("X-Hub-Signature-256", "sha256=abc")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var resp ingestResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "webhook-123", resp.ID)
		assert.Equal(t, "accepted", resp.Status)
	})

	t.Run("unknown subscription is 404", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Ingest", mock.Anything, "missing", "", mock.Anything, "").Return("", webhook.ErrSubscriptionNotFound)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodPost, "/ingest/missing", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("inactive subscription is 403", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Ingest", mock.Anything, "sub-1", "", mock.Anything, "").Return("", webhook.ErrSubscriptionInactive)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodPost, "/ingest/sub-1", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejected event type is 403", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Ingest", mock.Anything, "sub-1", "order.created", mock.Anything, "").Return("", webhook.ErrEventTypeRejected)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodPost, "/ingest/sub-1?event_type=order.created", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid signature is 403", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Ingest", mock.Anything, "sub-1", "", mock.Anything, "sha256=bad").Return("", webhook.ErrSignatureInvalid)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodPost, "/ingest/sub-1", bytes.NewBufferString(`{}`))
		req.Header.Set("X-Hub-Signature-256", "sha256=bad")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed payload is 400", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Ingest", mock.Anything, "sub-1", "", mock.Anything, "").Return("", webhook.ErrMalformedPayload)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodPost, "/ingest/sub-1", bytes.NewBufferString(`{not json`))
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		code := 502
		wh := webhook.Webhook{
			ID:             "webhook-123",
			SubscriptionID: "sub-1",
			EventType:      "order.created",
			Status:         webhook.Pending,
			RetryCount:     1,
			NextAttemptDue: created.Add(10 * time.Second),
			CreatedAt:      created,
		}
		attempts := []webhook.DeliveryAttempt{
			{WebhookID: "webhook-123", AttemptNumber: 1, StatusCode: &code, ErrorDetail: "bad gateway", Timestamp: created},
		}
		s.On("Status", mock.Anything, "webhook-123").Return(wh, attempts, nil)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodGet, "/status/webhook-123", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp statusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "webhook-123", resp.ID)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, 1, resp.RetryCount)
		require.NotNil(t, resp.NextAttemptDue)
		require.Len(t, resp.Attempts, 1)
		assert.Equal(t, 1, resp.Attempts[0].AttemptNumber)
		require.NotNil(t, resp.Attempts[0].StatusCode)
		assert.Equal(t, 502, *resp.Attempts[0].StatusCode)
		assert.Equal(t, "bad gateway", resp.Attempts[0].ErrorDetail)
	})

	t.Run("terminal webhook omits next attempt", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		wh := webhook.Webhook{ID: "webhook-123", Status: webhook.Delivered, CreatedAt: time.Now()}
		s.On("Status", mock.Anything, "webhook-123").Return(wh, []webhook.DeliveryAttempt{}, nil)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodGet, "/status/webhook-123", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp statusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "delivered", resp.Status)
		assert.Nil(t, resp.NextAttemptDue)
	})

	t.Run("not found", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Status", mock.Anything, "missing").Return(webhook.Webhook{}, nil, webhook.ErrNotFound)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodGet, "/status/missing", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("default pagination", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("History", mock.Anything, "sub-1", 20, 0).Return([]webhook.Webhook{
			{ID: "webhook-2", Status: webhook.Delivered, CreatedAt: time.Now()},
			{ID: "webhook-1", Status: webhook.Failed, CreatedAt: time.Now()},
		}, nil)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodGet, "/subscriptions/sub-1/history", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp historyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 20, resp.Limit)
		require.Len(t, resp.Webhooks, 2)
		assert.Equal(t, "webhook-2", resp.Webhooks[0].ID)
	})

	t.Run("explicit page and limit become an offset", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("History", mock.Anything, "sub-1", 10, 20).Return([]webhook.Webhook{}, nil)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodGet, "/subscriptions/sub-1/history?page=3&limit=10", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("limit above the maximum falls back to the default", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("History", mock.Anything, "sub-1", 20, 0).Return([]webhook.Webhook{}, nil)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodGet, "/subscriptions/sub-1/history?limit=5000", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown subscription is 404", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("History", mock.Anything, "missing", 20, 0).Return(nil, webhook.ErrSubscriptionNotFound)

		h := Handlers(ctx, s, nil)
		req := httptest.NewRequest(http.MethodGet, "/subscriptions/missing/history", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealth(t *testing.T) {
	s := mocks.NewUseCase(t)
	h := Handlers(context.Background(), s, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
