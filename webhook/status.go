package webhook

import "fmt"

/* Status represents the current state of a webhook delivery
 * Transitions are monotonic: Pending -> InProgress -> Delivered/Pending(retry)/Failed
 * Delivered and Failed are absorbing
 */
type Status int

const (
	Pending Status = iota + 1
	InProgress
	Delivered
	Failed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case InProgress:
		return "in_progress"
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string
func NewStatus(str string) Status {
	switch str {
	case "pending":
		return Pending
	case "in_progress":
		return InProgress
	case "delivered":
		return Delivered
	case "failed":
		return Failed
	default:
		return Pending
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Pending || s > Failed {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// IsFinal returns true if the status is a terminal state
func (s Status) IsFinal() bool {
	return s == Delivered || s == Failed
}
