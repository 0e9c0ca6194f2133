package subscription

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by readers when a subscription does not exist
var ErrNotFound = errors.New("subscription not found")

/* Subscription represents a registered target endpoint and the event
 * types it receives. The delivery engine treats it as read-only; only
 * the administrative path mutates subscriptions
 */
type Subscription struct {
	ID         string
	TargetURL  string
	SecretKey  string // empty means deliveries are unsigned
	EventTypes []string
	IsActive   bool
	CreatedAt  time.Time
}

/* AcceptsEventType reports whether the subscription receives the given
 * event type. An empty filter accepts everything. Filters support exact
 * matches and prefix wildcards: "user.*" matches "user.created"
 */
func (s Subscription) AcceptsEventType(eventType string) bool {
	if len(s.EventTypes) == 0 {
		return true
	}

	for _, accepted := range s.EventTypes {
		if accepted == eventType {
			return true
		}

		// Prefix match (e.g., "user.*" matches "user.created", "user.updated")
		if len(accepted) > 2 && accepted[len(accepted)-2:] == ".*" {
			prefix := accepted[:len(accepted)-2]
			if len(eventType) > len(prefix) && eventType[:len(prefix)] == prefix && eventType[len(prefix)] == '.' {
				return true
			}
		}
	}

	return false
}

// Reader provides read access to subscriptions
type Reader interface {
	Get(ctx context.Context, id string) (Subscription, error)
}

// Writer provides write access used by the provisioning path
type Writer interface {
	Save(ctx context.Context, sub Subscription) error
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
