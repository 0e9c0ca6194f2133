package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of webhook.Repository
 * Uses Redis Hashes for webhook state, Lists for the append-only attempt
 * log, and Sorted Sets as the (status, next_attempt_due) index:
 *   webhooks:due      - pending webhooks scored by due time (the work queue)
 *   webhooks:inflight - in_progress webhooks scored by claim time
 *   webhooks:created  - all webhooks scored by creation time (retention scan)
 * The store is authoritative: every status transition is a Lua script
 * conditioned on the expected prior status, so racing workers cannot
 * double-claim or double-finalize
 */

const (
	hashPrefix        = "webhook"           // Hash naming: webhook:{webhook_id}
	attemptsSuffix    = "attempts"          // List naming: webhook:{webhook_id}:attempts
	dueKey            = "webhooks:due"      // ZSET of pending webhook IDs by due time
	inflightKey       = "webhooks:inflight" // ZSET of in_progress webhook IDs by claim time
	createdKey        = "webhooks:created"  // ZSET of all webhook IDs by creation time
	deliveredKey      = "webhooks:delivered" // ZSET of delivered webhook IDs by delivery time
	subWebhooksFormat = "subscription:%s:webhooks"
)

/* claimScript atomically picks one due pending webhook and transitions it
 * to in_progress. Exactly one caller wins when several race on the same
 * item; losers see no eligible work
 */
var claimScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 1)
if #due == 0 then
  return false
end
local id = due[1]
local key = ARGV[2] .. ':' .. id
if redis.call('HGET', key, 'status') ~= 'pending' then
  redis.call('ZREM', KEYS[1], id)
  return false
end
redis.call('HSET', key, 'status', 'in_progress', 'last_claimed_at', ARGV[1])
redis.call('ZREM', KEYS[1], id)
redis.call('ZADD', KEYS[2], ARGV[1], id)
return id
`)

// finalizeScript moves in_progress -> delivered/failed and clears the due time
var finalizeScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'status') ~= 'in_progress' then
  return 0
end
redis.call('HSET', KEYS[1], 'status', ARGV[2], 'next_attempt_due', 0)
redis.call('ZREM', KEYS[2], ARGV[1])
redis.call('ZREM', KEYS[3], ARGV[1])
if ARGV[2] == 'delivered' then
  redis.call('ZADD', KEYS[4], ARGV[3], ARGV[1])
end
return 1
`)

// retryScript moves in_progress -> pending with a future due time
var retryScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'status') ~= 'in_progress' then
  return 0
end
redis.call('HSET', KEYS[1], 'status', 'pending', 'next_attempt_due', ARGV[2])
redis.call('ZREM', KEYS[2], ARGV[1])
redis.call('ZADD', KEYS[3], ARGV[2], ARGV[1])
return 1
`)

/* reclaimScript reverts stalled in_progress webhooks to pending with
 * due=now, retry count unchanged. The stalled attempt is treated as not
 * having occurred
 */
var reclaimScript = redis.NewScript(`
local stalled = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local reclaimed = {}
for _, id in ipairs(stalled) do
  local key = ARGV[3] .. ':' .. id
  if redis.call('HGET', key, 'status') == 'in_progress' then
    redis.call('HSET', key, 'status', 'pending', 'next_attempt_due', ARGV[2], 'last_claimed_at', 0)
    redis.call('ZADD', KEYS[2], ARGV[2], id)
    reclaimed[#reclaimed+1] = id
  end
  redis.call('ZREM', KEYS[1], id)
end
return reclaimed
`)

/* pruneScript deletes one terminal webhook and its attempts atomically,
 * attempts first, so an attempt row can never outlive its webhook.
 * Pending and in_progress webhooks are left untouched regardless of age
 */
var pruneScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'status')
if status ~= 'delivered' and status ~= 'failed' then
  return 0
end
local sub = redis.call('HGET', KEYS[1], 'subscription_id')
redis.call('DEL', KEYS[2])
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[3], ARGV[1])
redis.call('ZREM', KEYS[4], ARGV[1])
if sub then
  redis.call('ZREM', 'subscription:' .. sub .. ':webhooks', ARGV[1])
end
return 1
`)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// Store persists a new webhook and indexes it as due work in one transaction
func (r *Repository) Store(ctx context.Context, wh webhook.Webhook) (string, error) {
	hashKey := webhookKey(wh.ID)
	subKey := fmt.Sprintf(subWebhooksFormat, wh.SubscriptionID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, hashKey, map[string]interface{}{
		"id":               wh.ID,
		"subscription_id":  wh.SubscriptionID,
		"event_type":       wh.EventType,
		"payload":          wh.Payload,
		"status":           wh.Status.String(),
		"retry_count":      wh.RetryCount,
		"next_attempt_due": wh.NextAttemptDue.Unix(),
		"last_claimed_at":  0,
		"created_at":       wh.CreatedAt.Unix(),
	})
	pipe.ZAdd(ctx, dueKey, redis.Z{Score: float64(wh.NextAttemptDue.Unix()), Member: wh.ID})
	pipe.ZAdd(ctx, createdKey, redis.Z{Score: float64(wh.CreatedAt.Unix()), Member: wh.ID})
	pipe.ZAdd(ctx, subKey, redis.Z{Score: float64(wh.CreatedAt.Unix()), Member: wh.ID})

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("storing webhook: %w", err)
	}

	return wh.ID, nil
}

// Get retrieves a webhook by ID from its Redis hash
func (r *Repository) Get(ctx context.Context, id string) (webhook.Webhook, error) {
	data, err := r.client.HGetAll(ctx, webhookKey(id)).Result()
	if err != nil {
		return webhook.Webhook{}, fmt.Errorf("getting webhook: %w", err)
	}
	if len(data) == 0 {
		return webhook.Webhook{}, fmt.Errorf("%w: %s", webhook.ErrNotFound, id)
	}

	return hydrate(data), nil
}

// ListBySubscription returns webhooks for a subscription, most recent first
func (r *Repository) ListBySubscription(ctx context.Context, subscriptionID string, limit, offset int) ([]webhook.Webhook, error) {
	subKey := fmt.Sprintf(subWebhooksFormat, subscriptionID)

	ids, err := r.client.ZRevRange(ctx, subKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing subscription webhooks: %w", err)
	}

	webhooks := make([]webhook.Webhook, 0, len(ids))
	for _, id := range ids {
		wh, err := r.Get(ctx, id)
		if err != nil {
			// Pruned between the index read and the hash read
			continue
		}
		webhooks = append(webhooks, wh)
	}

	return webhooks, nil
}

// ListAttempts returns the delivery attempts for a webhook in recorded order
func (r *Repository) ListAttempts(ctx context.Context, webhookID string) ([]webhook.DeliveryAttempt, error) {
	raw, err := r.client.LRange(ctx, attemptsKey(webhookID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}

	attempts := make([]webhook.DeliveryAttempt, 0, len(raw))
	for _, item := range raw {
		var record attemptRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("unmarshaling attempt: %w", err)
		}
		attempts = append(attempts, record.toDomain(webhookID))
	}

	return attempts, nil
}

// ClaimDue atomically claims one due pending webhook for this worker
func (r *Repository) ClaimDue(ctx context.Context, now time.Time) (webhook.Webhook, bool, error) {
	id, err := claimScript.Run(ctx, r.client,
		[]string{dueKey, inflightKey},
		now.Unix(), hashPrefix,
	).Text()
	if err == redis.Nil {
		return webhook.Webhook{}, false, nil
	}
	if err != nil {
		return webhook.Webhook{}, false, fmt.Errorf("claiming due webhook: %w", err)
	}

	wh, err := r.Get(ctx, id)
	if err != nil {
		return webhook.Webhook{}, false, fmt.Errorf("loading claimed webhook: %w", err)
	}

	return wh, true, nil
}

// RecordAttempt appends an attempt and increments the retry count in one transaction
func (r *Repository) RecordAttempt(ctx context.Context, webhookID string, attempt webhook.DeliveryAttempt) (int, error) {
	data, err := json.Marshal(fromDomain(attempt))
	if err != nil {
		return 0, fmt.Errorf("marshaling attempt: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, attemptsKey(webhookID), data)
	incr := pipe.HIncrBy(ctx, webhookKey(webhookID), "retry_count", 1)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("recording attempt: %w", err)
	}

	return int(incr.Val()), nil
}

// MarkDelivered transitions in_progress -> delivered
func (r *Repository) MarkDelivered(ctx context.Context, id string) error {
	return r.finalize(ctx, id, webhook.Delivered)
}

// MarkFailed transitions in_progress -> failed
func (r *Repository) MarkFailed(ctx context.Context, id string) error {
	return r.finalize(ctx, id, webhook.Failed)
}

func (r *Repository) finalize(ctx context.Context, id string, status webhook.Status) error {
	ok, err := finalizeScript.Run(ctx, r.client,
		[]string{webhookKey(id), inflightKey, dueKey, deliveredKey},
		id, status.String(), time.Now().Unix(),
	).Int()
	if err != nil {
		return fmt.Errorf("finalizing webhook: %w", err)
	}
	if ok == 0 {
		return fmt.Errorf("webhook %s is not in progress", id)
	}
	return nil
}

// ScheduleRetry transitions in_progress -> pending with the given due time
func (r *Repository) ScheduleRetry(ctx context.Context, id string, due time.Time) error {
	ok, err := retryScript.Run(ctx, r.client,
		[]string{webhookKey(id), inflightKey, dueKey},
		id, due.Unix(),
	).Int()
	if err != nil {
		return fmt.Errorf("scheduling retry: %w", err)
	}
	if ok == 0 {
		return fmt.Errorf("webhook %s is not in progress", id)
	}
	return nil
}

// ReclaimStalled reverts webhooks claimed before olderThan back to pending
func (r *Repository) ReclaimStalled(ctx context.Context, olderThan time.Time, now time.Time) ([]string, error) {
	ids, err := reclaimScript.Run(ctx, r.client,
		[]string{inflightKey, dueKey},
		olderThan.Unix(), now.Unix(), hashPrefix,
	).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("reclaiming stalled webhooks: %w", err)
	}
	return ids, nil
}

// PruneOlderThan deletes up to batchSize terminal webhooks created before cutoff
func (r *Repository) PruneOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int, error) {
	ids, err := r.client.ZRangeByScore(ctx, createdKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", cutoff.Unix()),
		Count: int64(batchSize),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("scanning prunable webhooks: %w", err)
	}

	pruned := 0
	for _, id := range ids {
		deleted, err := pruneScript.Run(ctx, r.client,
			[]string{webhookKey(id), attemptsKey(id), createdKey, deliveredKey},
			id,
		).Int()
		if err != nil {
			return pruned, fmt.Errorf("pruning webhook %s: %w", id, err)
		}
		pruned += deleted
	}

	return pruned, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

// attemptRecord is the stored JSON shape of a delivery attempt
type attemptRecord struct {
	ID            string `json:"id"`
	AttemptNumber int    `json:"attempt_number"`
	StatusCode    *int   `json:"status_code"`
	ErrorDetail   string `json:"error_detail"`
	IsSuccess     bool   `json:"is_success"`
	Timestamp     int64  `json:"timestamp"`
}

func fromDomain(a webhook.DeliveryAttempt) attemptRecord {
	return attemptRecord{
		ID:            a.ID,
		AttemptNumber: a.AttemptNumber,
		StatusCode:    a.StatusCode,
		ErrorDetail:   a.ErrorDetail,
		IsSuccess:     a.IsSuccess,
		Timestamp:     a.Timestamp.Unix(),
	}
}

func (a attemptRecord) toDomain(webhookID string) webhook.DeliveryAttempt {
	return webhook.DeliveryAttempt{
		ID:            a.ID,
		WebhookID:     webhookID,
		AttemptNumber: a.AttemptNumber,
		StatusCode:    a.StatusCode,
		ErrorDetail:   a.ErrorDetail,
		IsSuccess:     a.IsSuccess,
		Timestamp:     time.Unix(a.Timestamp, 0),
	}
}

// Helper functions

func webhookKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func attemptsKey(id string) string {
	return fmt.Sprintf("%s:%s:%s", hashPrefix, id, attemptsSuffix)
}

func hydrate(data map[string]string) webhook.Webhook {
	wh := webhook.Webhook{
		ID:             data["id"],
		SubscriptionID: data["subscription_id"],
		EventType:      data["event_type"],
		Payload:        []byte(data["payload"]),
		Status:         webhook.NewStatus(data["status"]),
		RetryCount:     int(parseInt64(data["retry_count"])),
		CreatedAt:      time.Unix(parseInt64(data["created_at"]), 0),
	}

	if due := parseInt64(data["next_attempt_due"]); due > 0 {
		wh.NextAttemptDue = time.Unix(due, 0)
	}
	if claimed := parseInt64(data["last_claimed_at"]); claimed > 0 {
		wh.LastClaimedAt = time.Unix(claimed, 0)
	}

	return wh
}

func parseInt64(s string) int64 {
	var result int64
	fmt.Sscanf(s, "%d", &result)
	return result
}
