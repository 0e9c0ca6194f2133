package webhook

import "time"

/* Webhook represents one ingested event awaiting or having completed delivery
 * Uses value semantics as it represents data, not behavior
 */
type Webhook struct {
	ID             string
	SubscriptionID string
	EventType      string
	Payload        []byte
	Status         Status
	RetryCount     int
	NextAttemptDue time.Time // zero once the webhook reaches a terminal state
	LastClaimedAt  time.Time // set on claim, drives crash recovery
	CreatedAt      time.Time
}
