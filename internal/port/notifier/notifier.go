// Package notifier defines the notification port (interface) and the
// factory registry adapters self-register with.
//
// Orchestrators invoke a Notifier strictly after all persistence writes
// have succeeded, never on a rollback path. A notifier error is reported
// to the caller as an operation failure but committed persistence is not
// undone for it.
package notifier

import (
	"context"
	"errors"

	"github.com/taskwell/taskwell/internal/domain/task"
)

// ErrNotConfigured is returned when a notifier is not properly configured.
var ErrNotConfigured = errors.New("notifier: not configured")

// Notifier is the port interface for task notifications.
type Notifier interface {
	// Name returns the unique identifier for this notifier (e.g. "slack", "email").
	Name() string

	// TaskCompleted announces that a task was completed.
	TaskCompleted(ctx context.Context, t *task.Task) error

	// TaskHighPriority announces that a task was raised to HIGH priority.
	TaskHighPriority(ctx context.Context, t *task.Task) error

	// DeadlineApproaching warns that a task's deadline is within the
	// configured threshold. daysRemaining is rounded down, so a deadline
	// later today reports zero.
	DeadlineApproaching(ctx context.Context, t *task.Task, daysRemaining int) error
}
