package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/notifier"
)

// NotificationService fans every event out to all configured notifiers.
// It implements the notifier port itself, so orchestrators hold a single
// notifier regardless of how many channels are configured. Per-channel
// failures are logged and joined into the returned error; one broken
// channel does not stop delivery to the others.
type NotificationService struct {
	notifiers []notifier.Notifier
}

var _ notifier.Notifier = (*NotificationService)(nil)

// NewNotificationService creates a NotificationService with the given
// notifiers.
func NewNotificationService(notifiers []notifier.Notifier) *NotificationService {
	return &NotificationService{notifiers: notifiers}
}

func (s *NotificationService) Name() string { return "fanout" }

// NotifierCount returns the number of configured notifiers.
func (s *NotificationService) NotifierCount() int {
	return len(s.notifiers)
}

func (s *NotificationService) TaskCompleted(ctx context.Context, t *task.Task) error {
	return s.each("task completed", func(n notifier.Notifier) error {
		return n.TaskCompleted(ctx, t)
	})
}

func (s *NotificationService) TaskHighPriority(ctx context.Context, t *task.Task) error {
	return s.each("task high priority", func(n notifier.Notifier) error {
		return n.TaskHighPriority(ctx, t)
	})
}

func (s *NotificationService) DeadlineApproaching(ctx context.Context, t *task.Task, daysRemaining int) error {
	return s.each("deadline approaching", func(n notifier.Notifier) error {
		return n.DeadlineApproaching(ctx, t, daysRemaining)
	})
}

func (s *NotificationService) each(event string, send func(notifier.Notifier) error) error {
	var joined error
	for _, n := range s.notifiers {
		if err := send(n); err != nil {
			slog.Warn("notification send failed", "provider", n.Name(), "event", event, "error", err)
			joined = errors.Join(joined, err)
			continue
		}
		slog.Debug("notification sent", "provider", n.Name(), "event", event)
	}
	return joined
}
