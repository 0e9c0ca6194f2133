package delivery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marcelsud/webhook-relay/subscription"
	submocks "github.com/marcelsud/webhook-relay/subscription/mocks"
	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/marcelsud/webhook-relay/webhook/backoff"
	"github.com/marcelsud/webhook-relay/webhook/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* stubDeliverer returns a canned result and counts calls, standing in
 * for the HTTP deliverer in pool tests
 */
type stubDeliverer struct {
	result Result
	calls  atomic.Int64
}

func (s *stubDeliverer) Deliver(ctx context.Context, sub subscription.Subscription, wh webhook.Webhook) Result {
	s.calls.Add(1)
	return s.result
}

func intPtr(v int) *int { return &v }

func claimedWebhook(retryCount int) webhook.Webhook {
	return webhook.Webhook{
		ID:             "webhook-123",
		SubscriptionID: "sub-1",
		EventType:      "order.created",
		Payload:        []byte(`{"order_id": 42}`),
		Status:         webhook.InProgress,
		RetryCount:     retryCount,
		CreatedAt:      time.Now(),
	}
}

func activeSub() subscription.Subscription {
	return subscription.Subscription{ID: "sub-1", TargetURL: "https://example.com/hooks", IsActive: true}
}

func newTestPool(store Store, subs subscription.Reader, d Deliverer) *Pool {
	return NewPool(store, subs, d, backoff.Default(), Config{Workers: 1}, zerolog.Nop())
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delivery is recorded and finalized", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		d := &stubDeliverer{result: Result{StatusCode: intPtr(200), Success: true}}
		pool := newTestPool(store, subs, d)

		wh := claimedWebhook(0)
		subs.On("Get", ctx, "sub-1").Return(activeSub(), nil)
		store.On("RecordAttempt", ctx, wh.ID, webhook.MatchAttempt(func(a webhook.DeliveryAttempt) bool {
			return a.WebhookID == wh.ID &&
				a.AttemptNumber == 1 &&
				a.StatusCode != nil && *a.StatusCode == 200 &&
				a.IsSuccess
		})).Return(1, nil)
		store.On("MarkDelivered", ctx, wh.ID).Return(nil)

		pool.process(ctx, zerolog.Nop(), wh)

		assert.Equal(t, int64(1), d.calls.Load())
	})

	t.Run("failed delivery schedules a retry per the backoff table", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		d := &stubDeliverer{result: Result{StatusCode: intPtr(500), ErrorDetail: "boom", Success: false}}
		pool := newTestPool(store, subs, d)

		wh := claimedWebhook(0)
		before := time.Now()
		subs.On("Get", ctx, "sub-1").Return(activeSub(), nil)
		store.On("RecordAttempt", ctx, wh.ID, webhook.MatchAttempt(func(a webhook.DeliveryAttempt) bool {
			return a.AttemptNumber == 1 && !a.IsSuccess && a.ErrorDetail == "boom"
		})).Return(1, nil)
		store.On("ScheduleRetry", ctx, wh.ID, mock.MatchedBy(func(due time.Time) bool {
			// First failure backs off 10s
			return due.After(before.Add(9*time.Second)) && due.Before(before.Add(12*time.Second))
		})).Return(nil)

		pool.process(ctx, zerolog.Nop(), wh)
	})

	t.Run("exhausted retries fail terminally", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		d := &stubDeliverer{result: Result{StatusCode: intPtr(500), Success: false}}
		pool := newTestPool(store, subs, d)

		wh := claimedWebhook(5) // sixth attempt
		subs.On("Get", ctx, "sub-1").Return(activeSub(), nil)
		store.On("RecordAttempt", ctx, wh.ID, webhook.MatchAttempt(func(a webhook.DeliveryAttempt) bool {
			return a.AttemptNumber == 6
		})).Return(6, nil)
		store.On("MarkFailed", ctx, wh.ID).Return(nil)

		pool.process(ctx, zerolog.Nop(), wh)
	})

	t.Run("inactive subscription skips the network call", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		d := &stubDeliverer{result: Result{StatusCode: intPtr(200), Success: true}}
		pool := newTestPool(store, subs, d)

		sub := activeSub()
		sub.IsActive = false

		wh := claimedWebhook(0)
		subs.On("Get", ctx, "sub-1").Return(sub, nil)
		store.On("RecordAttempt", ctx, wh.ID, webhook.MatchAttempt(func(a webhook.DeliveryAttempt) bool {
			return !a.IsSuccess && a.StatusCode == nil && a.ErrorDetail == "subscription inactive"
		})).Return(1, nil)
		store.On("ScheduleRetry", ctx, wh.ID, mock.AnythingOfType("time.Time")).Return(nil)

		pool.process(ctx, zerolog.Nop(), wh)

		assert.Equal(t, int64(0), d.calls.Load())
	})

	t.Run("deleted subscription fails terminally", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		d := &stubDeliverer{}
		pool := newTestPool(store, subs, d)

		wh := claimedWebhook(2)
		subs.On("Get", ctx, "sub-1").Return(subscription.Subscription{}, subscription.ErrNotFound)
		store.On("RecordAttempt", ctx, wh.ID, webhook.MatchAttempt(func(a webhook.DeliveryAttempt) bool {
			return a.AttemptNumber == 3 && !a.IsSuccess
		})).Return(3, nil)
		store.On("MarkFailed", ctx, wh.ID).Return(nil)

		pool.process(ctx, zerolog.Nop(), wh)

		assert.Equal(t, int64(0), d.calls.Load())
	})

	t.Run("subscription read error releases the claim", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		d := &stubDeliverer{}
		pool := newTestPool(store, subs, d)

		wh := claimedWebhook(0)
		subs.On("Get", ctx, "sub-1").Return(subscription.Subscription{}, errors.New("redis down"))
		store.On("ScheduleRetry", ctx, wh.ID, mock.AnythingOfType("time.Time")).Return(nil)

		pool.process(ctx, zerolog.Nop(), wh)

		assert.Equal(t, int64(0), d.calls.Load())
	})

	t.Run("record attempt error leaves the claim for the sweeper", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		d := &stubDeliverer{result: Result{StatusCode: intPtr(200), Success: true}}
		pool := newTestPool(store, subs, d)

		wh := claimedWebhook(0)
		subs.On("Get", ctx, "sub-1").Return(activeSub(), nil)
		store.On("RecordAttempt", ctx, wh.ID, mock.Anything).Return(0, errors.New("redis down"))
		// No MarkDelivered / ScheduleRetry expectations: the mock fails on any extra call

		pool.process(ctx, zerolog.Nop(), wh)
	})
}

func TestRun(t *testing.T) {
	t.Run("claims and delivers until cancelled", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		d := &stubDeliverer{result: Result{StatusCode: intPtr(200), Success: true}}
		pool := NewPool(store, subs, d, backoff.Default(), Config{Workers: 1, PollInterval: 10 * time.Millisecond}, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		wh := claimedWebhook(0)
		store.On("ClaimDue", mock.Anything, mock.AnythingOfType("time.Time")).Return(wh, true, nil).Once()
		store.On("ClaimDue", mock.Anything, mock.AnythingOfType("time.Time")).Return(webhook.Webhook{}, false, nil).Maybe()
		subs.On("Get", mock.Anything, "sub-1").Return(activeSub(), nil)
		store.On("RecordAttempt", mock.Anything, wh.ID, mock.Anything).Return(1, nil)

		delivered := make(chan struct{})
		store.On("MarkDelivered", mock.Anything, wh.ID).Run(func(args mock.Arguments) {
			close(delivered)
		}).Return(nil)

		done := make(chan error, 1)
		go func() { done <- pool.Run(ctx) }()

		select {
		case <-delivered:
		case <-time.After(2 * time.Second):
			t.Fatal("webhook was not delivered")
		}

		cancel()
		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("pool did not stop")
		}
	})

	t.Run("claim errors back off instead of crashing", func(t *testing.T) {
		store := mocks.NewRepository(t)
		subs := submocks.NewReader(t)
		pool := NewPool(store, subs, &stubDeliverer{}, backoff.Default(), Config{Workers: 1, PollInterval: 5 * time.Millisecond}, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		store.On("ClaimDue", mock.Anything, mock.AnythingOfType("time.Time")).Return(webhook.Webhook{}, false, errors.New("redis down")).Maybe()

		err := pool.Run(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
