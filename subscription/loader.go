package subscription

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/marcelsud/webhook-relay/webhook/payload"
	"gopkg.in/yaml.v3"
)

/* Loader provisions subscriptions from subscriptions.yaml into the store.
 * Subscription administration itself lives outside this service; the file
 * is how registered endpoints reach the delivery engine
 */

// Config represents the structure of subscriptions.yaml
type Config struct {
	Subscriptions []SubscriptionConfig `yaml:"subscriptions"`
}

// SubscriptionConfig represents a single subscription in the YAML file
type SubscriptionConfig struct {
	ID         string   `yaml:"id"`
	TargetURL  string   `yaml:"target_url"`
	SecretKey  string   `yaml:"secret_key"`  // optional, empty means unsigned
	EventTypes []string `yaml:"event_types"` // optional, empty accepts all
	IsActive   *bool    `yaml:"is_active"`   // optional, defaults to true
}

// Loader reads subscription files and saves the entries into a Writer
type Loader struct {
	store Writer
}

// NewLoader creates a new subscription loader
func NewLoader(store Writer) *Loader {
	return &Loader{store: store}
}

// Load reads, validates, and persists the subscriptions file
func (l *Loader) Load(ctx context.Context, filePath string) (int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("reading subscriptions file: %w", err)
	}

	subs, err := Parse(data)
	if err != nil {
		return 0, err
	}

	for _, sub := range subs {
		if err := l.store.Save(ctx, sub); err != nil {
			return 0, fmt.Errorf("saving subscription %s: %w", sub.ID, err)
		}
	}

	return len(subs), nil
}

// Parse parses and validates the YAML content without persisting it
func Parse(data []byte) ([]Subscription, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing subscriptions YAML: %w", err)
	}

	subs := make([]Subscription, 0, len(config.Subscriptions))
	for _, sc := range config.Subscriptions {
		active := true
		if sc.IsActive != nil {
			active = *sc.IsActive
		}

		sub := Subscription{
			ID:         sc.ID,
			TargetURL:  sc.TargetURL,
			SecretKey:  sc.SecretKey,
			EventTypes: sc.EventTypes,
			IsActive:   active,
			CreatedAt:  time.Now(),
		}

		if err := validate(sub); err != nil {
			return nil, fmt.Errorf("validating subscription: %w", err)
		}

		subs = append(subs, sub)
	}

	return subs, nil
}

func validate(sub Subscription) error {
	if sub.ID == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if sub.TargetURL == "" {
		return fmt.Errorf("target_url cannot be empty for subscription %s", sub.ID)
	}
	u, err := url.Parse(sub.TargetURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("target_url must be an absolute URL for subscription %s", sub.ID)
	}
	for _, et := range sub.EventTypes {
		if err := payload.ValidateEventType(et); err != nil {
			return fmt.Errorf("invalid event type for subscription %s: %w", sub.ID, err)
		}
	}
	return nil
}
