package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-relay/subscription"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of subscription.Repository
 * Uses Redis Hashes keyed subscription:{id}. The delivery engine only
 * reads subscriptions; writes come from the provisioning loader
 */

const hashPrefix = "subscription" // Hash naming: subscription:{subscription_id}

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis subscription repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{client: client}, nil
}

// Save stores a subscription hash
func (r *Repository) Save(ctx context.Context, sub subscription.Subscription) error {
	eventTypes, err := json.Marshal(sub.EventTypes)
	if err != nil {
		return fmt.Errorf("marshaling event types: %w", err)
	}

	active := 0
	if sub.IsActive {
		active = 1
	}

	err = r.client.HSet(ctx, subscriptionKey(sub.ID), map[string]interface{}{
		"id":          sub.ID,
		"target_url":  sub.TargetURL,
		"secret_key":  sub.SecretKey,
		"event_types": string(eventTypes),
		"is_active":   active,
		"created_at":  sub.CreatedAt.Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("storing subscription: %w", err)
	}

	return nil
}

// Get retrieves a subscription by ID
func (r *Repository) Get(ctx context.Context, id string) (subscription.Subscription, error) {
	data, err := r.client.HGetAll(ctx, subscriptionKey(id)).Result()
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("getting subscription: %w", err)
	}
	if len(data) == 0 {
		return subscription.Subscription{}, fmt.Errorf("%w: %s", subscription.ErrNotFound, id)
	}

	var eventTypes []string
	if raw, ok := data["event_types"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &eventTypes); err != nil {
			return subscription.Subscription{}, fmt.Errorf("unmarshaling event types: %w", err)
		}
	}

	return subscription.Subscription{
		ID:         data["id"],
		TargetURL:  data["target_url"],
		SecretKey:  data["secret_key"],
		EventTypes: eventTypes,
		IsActive:   data["is_active"] == "1",
		CreatedAt:  time.Unix(parseInt64(data["created_at"]), 0),
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

func subscriptionKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func parseInt64(s string) int64 {
	var result int64
	fmt.Sscanf(s, "%d", &result)
	return result
}
