package backoff

import (
	"fmt"
	"time"
)

/* Schedule is the fixed table mapping a failed attempt number to the
 * delay before the next attempt. It is a pure value: computing a delay
 * has no side effects, and writing the resulting due time is the
 * caller's job
 */
type Schedule struct {
	delays []time.Duration
}

// Default returns the standard schedule: 10s, 30s, 1m, 5m, 15m.
// The sixth consecutive failure is terminal.
func Default() Schedule {
	return Schedule{delays: []time.Duration{
		10 * time.Second,
		30 * time.Second,
		1 * time.Minute,
		5 * time.Minute,
		15 * time.Minute,
	}}
}

// New creates a schedule from an explicit delay table
func New(delays []time.Duration) (Schedule, error) {
	if len(delays) == 0 {
		return Schedule{}, fmt.Errorf("backoff schedule cannot be empty")
	}
	for i, d := range delays {
		if d <= 0 {
			return Schedule{}, fmt.Errorf("backoff delay %d must be positive, got %s", i+1, d)
		}
	}
	return Schedule{delays: append([]time.Duration(nil), delays...)}, nil
}

/* NextDelay maps the attempt number that just failed (1-based) to the
 * delay before the next attempt. ok=false means the retry ceiling is
 * reached and the webhook becomes terminally failed
 */
func (s Schedule) NextDelay(failedAttempt int) (time.Duration, bool) {
	if failedAttempt < 1 || failedAttempt > len(s.delays) {
		return 0, false
	}
	return s.delays[failedAttempt-1], true
}

// MaxAttempts returns the total number of attempts before a webhook fails terminally
func (s Schedule) MaxAttempts() int {
	return len(s.delays) + 1
}

// NextDue computes the due time for the attempt after failedAttempt
func (s Schedule) NextDue(now time.Time, failedAttempt int) (time.Time, bool) {
	delay, ok := s.NextDelay(failedAttempt)
	if !ok {
		return time.Time{}, false
	}
	return now.Add(delay), true
}
