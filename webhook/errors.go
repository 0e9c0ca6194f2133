package webhook

import "errors"

/* Admission errors are rejected synchronously at ingestion and never
 * enter the delivery pipeline. Callers match them with errors.Is
 */
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionInactive = errors.New("subscription is not active")
	ErrEventTypeRejected    = errors.New("event type not accepted by subscription")
	ErrSignatureInvalid     = errors.New("invalid signature")
	ErrMalformedPayload     = errors.New("malformed payload")

	// ErrNotFound is returned by readers when a webhook does not exist
	ErrNotFound = errors.New("webhook not found")
)
