package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-relay/subscription"
	"github.com/marcelsud/webhook-relay/webhook/payload"
	"github.com/marcelsud/webhook-relay/webhook/signature"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the ingestion and read operations for webhook management
type UseCase interface {
	/* Ingest admits a new event for a subscription and returns the new
	 * webhook ID immediately; delivery happens asynchronously
	 */
	Ingest(ctx context.Context, subscriptionID, eventType string, body []byte, signatureHeader string) (string, error)
	// Status returns a webhook and its delivery attempts, ordered by attempt number
	Status(ctx context.Context, webhookID string) (Webhook, []DeliveryAttempt, error)
	// History returns webhooks for a subscription, most recent first, paginated
	History(ctx context.Context, subscriptionID string, limit, offset int) ([]Webhook, error)
}

type Service struct {
	Repo Repository
	Subs subscription.Reader
}

// NewService creates a new webhook service with dependency injection
func NewService(repo Repository, subs subscription.Reader) *Service {
	return &Service{
		Repo: repo,
		Subs: subs,
	}
}

// Ingest validates an incoming event and persists it as a pending webhook.
// Admission failures are surfaced synchronously and never enter the pipeline.
func (s *Service) Ingest(ctx context.Context, subscriptionID, eventType string, body []byte, signatureHeader string) (string, error) {
	sub, err := s.Subs.Get(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return "", ErrSubscriptionNotFound
		}
		return "", fmt.Errorf("resolving subscription: %w", err)
	}

	if !sub.IsActive {
		return "", ErrSubscriptionInactive
	}

	if eventType != "" {
		if err := payload.ValidateEventType(eventType); err != nil {
			return "", fmt.Errorf("%w: %v", ErrEventTypeRejected, err)
		}
		if !sub.AcceptsEventType(eventType) {
			return "", ErrEventTypeRejected
		}
	}

	if sub.SecretKey != "" {
		if !signature.Verify(body, sub.SecretKey, signatureHeader) {
			return "", ErrSignatureInvalid
		}
	}

	if err := payload.Validate(body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	now := time.Now()
	wh := Webhook{
		ID:             uuid.New().String(),
		SubscriptionID: sub.ID,
		EventType:      eventType,
		Payload:        body,
		Status:         Pending,
		RetryCount:     0,
		NextAttemptDue: now,
		CreatedAt:      now,
	}

	id, err := s.Repo.Store(ctx, wh)
	if err != nil {
		return "", fmt.Errorf("storing webhook: %w", err)
	}

	return id, nil
}

// Status returns the current state of a webhook with its attempt history
func (s *Service) Status(ctx context.Context, webhookID string) (Webhook, []DeliveryAttempt, error) {
	wh, err := s.Repo.Get(ctx, webhookID)
	if err != nil {
		return Webhook{}, nil, fmt.Errorf("getting webhook: %w", err)
	}

	attempts, err := s.Repo.ListAttempts(ctx, webhookID)
	if err != nil {
		return Webhook{}, nil, fmt.Errorf("listing delivery attempts: %w", err)
	}

	return wh, attempts, nil
}

// History returns a page of webhooks for a subscription, most recent first
func (s *Service) History(ctx context.Context, subscriptionID string, limit, offset int) ([]Webhook, error) {
	if _, err := s.Subs.Get(ctx, subscriptionID); err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("resolving subscription: %w", err)
	}

	webhooks, err := s.Repo.ListBySubscription(ctx, subscriptionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	return webhooks, nil
}
