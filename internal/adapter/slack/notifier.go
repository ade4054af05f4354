// Package slack implements a notifier.Notifier for Slack webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/notifier"
)

const providerName = "slack"

// Notifier sends task notifications to Slack via incoming webhook.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewNotifier creates a Slack notifier with the given webhook URL.
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: http.DefaultClient,
	}
}

func (n *Notifier) Name() string { return providerName }

func (n *Notifier) TaskCompleted(ctx context.Context, t *task.Task) error {
	return n.send(ctx, fmt.Sprintf(":white_check_mark: *Task completed:* %s", t.Title()))
}

func (n *Notifier) TaskHighPriority(ctx context.Context, t *task.Task) error {
	return n.send(ctx, fmt.Sprintf(":rotating_light: *High priority:* %s", t.Title()))
}

func (n *Notifier) DeadlineApproaching(ctx context.Context, t *task.Task, daysRemaining int) error {
	return n.send(ctx, fmt.Sprintf(":alarm_clock: *Deadline approaching:* %s is due in %d day(s)", t.Title(), daysRemaining))
}

// slackMessage is the Slack Block Kit message payload.
type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n.webhookURL == "" {
		return notifier.ErrNotConfigured
	}

	msg := slackMessage{
		Blocks: []slackBlock{
			{Type: "section", Text: &slackText{Type: "mrkdwn", Text: text}},
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack API %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
