// Package nats implements a notifier.Notifier that publishes task events
// to NATS JetStream for external consumers.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/notifier"
)

const (
	providerName = "nats"
	streamName   = "TASKWELL"

	subjectTaskCompleted    = "tasks.completed"
	subjectTaskHighPriority = "tasks.high_priority"
	subjectDeadlineWarning  = "tasks.deadline_approaching"
)

// Notifier publishes task events to JetStream subjects.
type Notifier struct {
	nc *nats.Conn
	js jetstream.JetStream
}

var _ notifier.Notifier = (*Notifier)(nil)

// Connect establishes a connection to NATS and ensures the JetStream
// stream exists.
func Connect(ctx context.Context, url string) (*Notifier, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"tasks.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	slog.Info("nats connected", "url", url, "stream", streamName)
	return &Notifier{nc: nc, js: js}, nil
}

// Register registers the notifier factory with an established connection.
// Unlike the webhook notifiers this cannot happen in init because the
// connection is a runtime dependency.
func Register(n *Notifier) {
	notifier.Register(providerName, func(_ map[string]string) (notifier.Notifier, error) {
		return n, nil
	})
}

func (n *Notifier) Name() string { return providerName }

// taskEvent is the JSON payload published for every task event.
type taskEvent struct {
	TaskID        string    `json:"task_id"`
	ProjectID     string    `json:"project_id"`
	Title         string    `json:"title"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	DaysRemaining *int      `json:"days_remaining,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (n *Notifier) TaskCompleted(ctx context.Context, t *task.Task) error {
	return n.publish(ctx, subjectTaskCompleted, newEvent(t, nil))
}

func (n *Notifier) TaskHighPriority(ctx context.Context, t *task.Task) error {
	return n.publish(ctx, subjectTaskHighPriority, newEvent(t, nil))
}

func (n *Notifier) DeadlineApproaching(ctx context.Context, t *task.Task, daysRemaining int) error {
	return n.publish(ctx, subjectDeadlineWarning, newEvent(t, &daysRemaining))
}

func newEvent(t *task.Task, daysRemaining *int) taskEvent {
	return taskEvent{
		TaskID:        t.ID(),
		ProjectID:     t.ProjectID(),
		Title:         t.Title(),
		Priority:      string(t.Priority()),
		Status:        string(t.Status()),
		DaysRemaining: daysRemaining,
		OccurredAt:    time.Now().UTC(),
	}
}

func (n *Notifier) publish(ctx context.Context, subject string, event taskEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("nats marshal event: %w", err)
	}
	if _, err := n.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// Close shuts down the NATS connection.
func (n *Notifier) Close() error {
	n.nc.Close()
	return nil
}
