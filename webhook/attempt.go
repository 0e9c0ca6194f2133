package webhook

import "time"

// maxErrorDetailBytes bounds the error detail stored per attempt
const maxErrorDetailBytes = 1000

/* DeliveryAttempt is an immutable record of one outbound delivery try
 * Created once per attempt by the worker pool, never mutated,
 * deleted only by the pruner alongside its parent webhook
 */
type DeliveryAttempt struct {
	ID            string
	WebhookID     string
	AttemptNumber int  // 1-based, matches the webhook retry count at time of attempt
	StatusCode    *int // nil when the call never completed (network error, timeout)
	ErrorDetail   string
	IsSuccess     bool
	Timestamp     time.Time
}

// TruncateErrorDetail bounds an error detail string to the stored maximum
func TruncateErrorDetail(detail string) string {
	if len(detail) > maxErrorDetailBytes {
		return detail[:maxErrorDetailBytes]
	}
	return detail
}
