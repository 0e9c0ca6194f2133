package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCollector implements the Collector interface for the Redis-backed store
type RedisCollector struct {
	client *redis.Client
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(client *redis.Client) *RedisCollector {
	return &RedisCollector{
		client: client,
	}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	dueBacklog, err := c.GetDueBacklog(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting due backlog: %w", err)
	}

	inFlight, err := c.GetInFlight(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting in-flight count: %w", err)
	}

	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	throughput, err := c.GetThroughput(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting throughput: %w", err)
	}

	workers, err := c.GetActiveWorkers(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting active workers: %w", err)
	}

	return Metrics{
		DueBacklog:   dueBacklog,
		InFlight:     inFlight,
		StatusCounts: statusCounts,
		Throughput:   throughput,
		Workers:      workers,
		Timestamp:    time.Now(),
	}, nil
}

// GetDueBacklog counts pending webhooks whose due time has already passed
func (c *RedisCollector) GetDueBacklog(ctx context.Context) (int64, error) {
	count, err := c.client.ZCount(ctx, "webhooks:due", "-inf", fmt.Sprintf("%d", time.Now().Unix())).Result()
	if err != nil {
		return 0, fmt.Errorf("counting due webhooks: %w", err)
	}
	return count, nil
}

// GetInFlight counts webhooks currently claimed by workers
func (c *RedisCollector) GetInFlight(ctx context.Context) (int64, error) {
	count, err := c.client.ZCard(ctx, "webhooks:inflight").Result()
	if err != nil {
		return 0, fmt.Errorf("counting in-flight webhooks: %w", err)
	}
	return count, nil
}

// GetStatusCounts returns counts of webhooks grouped by status
func (c *RedisCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	statusCounts := map[string]int64{
		"pending":     0,
		"in_progress": 0,
		"delivered":   0,
		"failed":      0,
	}

	// Scan for all webhook:* hashes
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, "webhook:*", 1000).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning webhook keys: %w", err)
		}

		for _, key := range keys {
			// Skip the attempt lists that share the prefix
			if strings.HasSuffix(key, ":attempts") {
				continue
			}

			status, err := c.client.HGet(ctx, key, "status").Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("getting webhook status: %w", err)
			}

			statusCounts[status]++
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return statusCounts, nil
}

// GetThroughput counts deliveries over the trailing time windows
func (c *RedisCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	now := time.Now()

	windows := []time.Duration{1 * time.Minute, 5 * time.Minute, 15 * time.Minute}
	counts := make([]int64, len(windows))

	for i, window := range windows {
		count, err := c.client.ZCount(ctx, "webhooks:delivered",
			fmt.Sprintf("%d", now.Add(-window).Unix()),
			fmt.Sprintf("%d", now.Unix()),
		).Result()
		if err != nil {
			return ThroughputMetrics{}, fmt.Errorf("counting deliveries: %w", err)
		}
		counts[i] = count
	}

	return ThroughputMetrics{
		LastMinute:         counts[0],
		LastFiveMinutes:    counts[1],
		LastFifteenMinutes: counts[2],
	}, nil
}

// GetActiveWorkers retrieves all workers with a live heartbeat
func (c *RedisCollector) GetActiveWorkers(ctx context.Context) ([]WorkerInfo, error) {
	var workers []WorkerInfo

	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, "worker:heartbeat:*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning worker keys: %w", err)
		}

		for _, key := range keys {
			data, err := c.client.Get(ctx, key).Result()
			if err == redis.Nil {
				// Key expired between scan and get
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("getting worker heartbeat: %w", err)
			}

			var info WorkerInfo
			if err := json.Unmarshal([]byte(data), &info); err != nil {
				continue
			}

			workers = append(workers, info)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return workers, nil
}
