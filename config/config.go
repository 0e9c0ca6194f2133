package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string `mapstructure:"PORT"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	SubscriptionsFile string `mapstructure:"SUBSCRIPTIONS_FILE"`
	CacheTTLSeconds   int    `mapstructure:"CACHE_TTL_SECONDS"`

	WorkerCount            int    `mapstructure:"WORKER_COUNT"`
	PollIntervalMs         int    `mapstructure:"POLL_INTERVAL_MS"`
	DeliveryTimeoutSeconds int    `mapstructure:"DELIVERY_TIMEOUT_SECONDS"`
	RetryBackoff           string `mapstructure:"RETRY_BACKOFF"`

	SweepIntervalSeconds     int `mapstructure:"SWEEP_INTERVAL_SECONDS"`
	LivenessThresholdSeconds int `mapstructure:"LIVENESS_THRESHOLD_SECONDS"`

	PruneIntervalMinutes int `mapstructure:"PRUNE_INTERVAL_MINUTES"`
	RetentionHours       int `mapstructure:"RETENTION_HOURS"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SUBSCRIPTIONS_FILE", "subscriptions.yaml")
	viper.SetDefault("CACHE_TTL_SECONDS", 3600)
	viper.SetDefault("WORKER_COUNT", 4)
	viper.SetDefault("POLL_INTERVAL_MS", 500)
	viper.SetDefault("DELIVERY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("RETRY_BACKOFF", "10s,30s,1m,5m,15m")
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 60)
	viper.SetDefault("LIVENESS_THRESHOLD_SECONDS", 120)
	viper.SetDefault("PRUNE_INTERVAL_MINUTES", 60)
	viper.SetDefault("RETENTION_HOURS", 72)

	if err := viper.ReadInConfig(); err != nil {
		// The .env file is optional; environment variables and defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate enforces the relationships the delivery engine depends on
func (c *Config) Validate() error {
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	if c.DeliveryTimeoutSeconds < 1 {
		return fmt.Errorf("DELIVERY_TIMEOUT_SECONDS must be at least 1")
	}
	// A liveness threshold below the delivery timeout would reclaim webhooks
	// whose delivery is still running
	if c.LivenessThresholdSeconds <= c.DeliveryTimeoutSeconds {
		return fmt.Errorf("LIVENESS_THRESHOLD_SECONDS (%d) must exceed DELIVERY_TIMEOUT_SECONDS (%d)",
			c.LivenessThresholdSeconds, c.DeliveryTimeoutSeconds)
	}
	if c.RetentionHours < 1 {
		return fmt.Errorf("RETENTION_HOURS must be at least 1")
	}
	if _, err := c.BackoffDelays(); err != nil {
		return err
	}
	return nil
}

// BackoffDelays parses the RETRY_BACKOFF list, e.g. "10s,30s,1m,5m,15m"
func (c *Config) BackoffDelays() ([]time.Duration, error) {
	parts := strings.Split(c.RetryBackoff, ",")
	delays := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		d, err := time.ParseDuration(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parsing RETRY_BACKOFF entry %q: %w", part, err)
		}
		delays = append(delays, d)
	}
	return delays, nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) DeliveryTimeout() time.Duration {
	return time.Duration(c.DeliveryTimeoutSeconds) * time.Second
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c *Config) LivenessThreshold() time.Duration {
	return time.Duration(c.LivenessThresholdSeconds) * time.Second
}

func (c *Config) PruneInterval() time.Duration {
	return time.Duration(c.PruneIntervalMinutes) * time.Minute
}

func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
