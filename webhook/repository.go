package webhook

import (
	"context"
	"time"
)

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// Reader provides read operations for webhooks and their attempts
type Reader interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Get(ctx context.Context, id string) (Webhook, error)
	/* ListBySubscription returns webhooks for a subscription,
	 * most recent first, paginated by limit/offset
	 */
	ListBySubscription(ctx context.Context, subscriptionID string, limit, offset int) ([]Webhook, error)
	// ListAttempts returns the delivery attempts for a webhook in recorded order
	ListAttempts(ctx context.Context, webhookID string) ([]DeliveryAttempt, error)
}

// Writer provides write operations for webhooks
type Writer interface {
	/* Store persists a new webhook and indexes it as due work in the
	 * same atomic operation, so a pending webhook is always discoverable
	 * by the workers even if the process dies right after ingestion
	 */
	Store(ctx context.Context, wh Webhook) (string, error)
}

// Claimer provides the atomic state transitions used by the worker pool.
// Every transition is conditional on the expected prior status so that
// racing workers cannot double-claim or double-finalize a webhook.
type Claimer interface {
	/* ClaimDue atomically selects one pending webhook whose due time has
	 * passed and transitions it to in_progress with last_claimed=now.
	 * Returns ok=false when no due work exists (or another worker won)
	 */
	ClaimDue(ctx context.Context, now time.Time) (Webhook, bool, error)
	/* RecordAttempt appends an immutable delivery attempt and increments
	 * the webhook retry count in one operation, returning the new count
	 */
	RecordAttempt(ctx context.Context, webhookID string, attempt DeliveryAttempt) (int, error)
	// MarkDelivered transitions in_progress -> delivered and clears the due time
	MarkDelivered(ctx context.Context, id string) error
	// ScheduleRetry transitions in_progress -> pending with the given due time
	ScheduleRetry(ctx context.Context, id string, due time.Time) error
	// MarkFailed transitions in_progress -> failed and clears the due time
	MarkFailed(ctx context.Context, id string) error
}

// Sweeper provides crash recovery for stalled deliveries
type Sweeper interface {
	/* ReclaimStalled reverts in_progress webhooks whose claim is older
	 * than olderThan back to pending with due=now, retry count unchanged.
	 * Returns the IDs of the reclaimed webhooks
	 */
	ReclaimStalled(ctx context.Context, olderThan time.Time, now time.Time) ([]string, error)
}

// Pruner provides retention deletion of terminal webhooks
type Pruner interface {
	/* PruneOlderThan deletes up to batchSize terminal webhooks created
	 * before cutoff, attempts first. Webhooks still pending or in
	 * progress are never deleted regardless of age
	 */
	PruneOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int, error)
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	Claimer
	Sweeper
	Pruner
	Close(ctx context.Context) error
}
