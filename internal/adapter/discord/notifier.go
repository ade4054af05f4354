// Package discord implements a notifier.Notifier for Discord webhooks.
package discord

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

const providerName = "discord"

// Notifier sends task notifications to Discord via incoming webhook.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewNotifier creates a Discord notifier with the given webhook URL.
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: http.DefaultClient,
	}
}

func (n *Notifier) Name() string { return providerName }

func (n *Notifier) TaskCompleted(ctx context.Context, t *task.Task) error {
	return n.send(ctx, "Task completed", fmt.Sprintf("%q is done.", t.Title()), 0x2ECC71)
}

func (n *Notifier) TaskHighPriority(ctx context.Context, t *task.Task) error {
	return n.send(ctx, "High priority task", fmt.Sprintf("%q was raised to HIGH priority.", t.Title()), 0xE74C3C)
}

func (n *Notifier) DeadlineApproaching(ctx context.Context, t *task.Task, daysRemaining int) error {
	return n.send(ctx, "Deadline approaching",
		fmt.Sprintf("%q is due in %d day(s).", t.Title(), daysRemaining), 0xF39C12)
}

// discordWebhook is the Discord webhook payload with embeds.
type discordWebhook struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

func (n *Notifier) send(ctx context.Context, title, message string, color int) error {
	if n.webhookURL == "" {
		return notifier.ErrNotConfigured
	}

	msg := discordWebhook{
		Embeds: []discordEmbed{{Title: title, Description: message, Color: color}},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("discord marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Discord returns 204 on success
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord API %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
