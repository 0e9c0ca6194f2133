package payload

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// eventTypePattern validates event types: hierarchical, full-stop delimited, [a-zA-Z0-9_.]
var eventTypePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

/* Payloads are opaque to the delivery engine and stored verbatim.
 * Validate only guards against bodies the target could never parse
 */

// Validate checks that a payload is non-empty, well-formed JSON
func Validate(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("payload is empty")
	}
	if !json.Valid(data) {
		return fmt.Errorf("payload must be valid JSON")
	}
	return nil
}

// ValidateEventType validates an event type format.
// Examples: "user.created", "invoice.paid", "order.shipped"
func ValidateEventType(eventType string) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}

	// Allow wildcard suffix for subscription filters
	if len(eventType) > 2 && eventType[len(eventType)-2:] == ".*" {
		eventType = eventType[:len(eventType)-2]
	}

	if !eventTypePattern.MatchString(eventType) {
		return fmt.Errorf("event type must be hierarchical and contain only [a-zA-Z0-9_.]: %s", eventType)
	}

	return nil
}
