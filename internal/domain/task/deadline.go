package task

import (
	"fmt"
	"time"

	"github.com/taskwell/taskwell/internal/domain"
)

// Deadline is an immutable due-date value object. New deadlines must lie in
// the future; rehydrated ones may legitimately be in the past by now.
type Deadline struct {
	due time.Time
}

// NewDeadline validates that the due date is in the future.
func NewDeadline(due time.Time) (Deadline, error) {
	if !due.After(time.Now()) {
		return Deadline{}, fmt.Errorf("deadline must be in the future: %w", domain.ErrValidation)
	}
	return Deadline{due: due.UTC()}, nil
}

// Due returns the due date.
func (d Deadline) Due() time.Time { return d.due }

// IsOverdue reports whether the due date has passed.
func (d Deadline) IsOverdue() bool {
	return time.Now().After(d.due)
}

// TimeRemaining returns the duration until the due date, never negative.
func (d Deadline) TimeRemaining() time.Duration {
	remaining := time.Until(d.due)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsApproaching reports whether the deadline is within the given threshold
// and not already past.
func (d Deadline) IsApproaching(threshold time.Duration) bool {
	remaining := time.Until(d.due)
	return remaining > 0 && remaining <= threshold
}
