// Package email provides an SMTP-based notifier.
package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/notifier"
)

const providerName = "email"

// SMTPConfig holds the configuration for SMTP connections.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	To       string
	Password string
}

// Notifier sends email notifications via SMTP.
type Notifier struct {
	cfg SMTPConfig
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg SMTPConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

func (n *Notifier) Name() string { return providerName }

func (n *Notifier) TaskCompleted(_ context.Context, t *task.Task) error {
	return n.send("Task completed: "+t.Title(),
		fmt.Sprintf("The task %q has been completed.", t.Title()))
}

func (n *Notifier) TaskHighPriority(_ context.Context, t *task.Task) error {
	return n.send("High priority task: "+t.Title(),
		fmt.Sprintf("The task %q was raised to HIGH priority.", t.Title()))
}

func (n *Notifier) DeadlineApproaching(_ context.Context, t *task.Task, daysRemaining int) error {
	return n.send("Deadline approaching: "+t.Title(),
		fmt.Sprintf("The task %q is due in %d day(s).", t.Title(), daysRemaining))
}

func (n *Notifier) send(subject, body string) error {
	if n.cfg.Host == "" || n.cfg.From == "" || n.cfg.To == "" {
		return notifier.ErrNotConfigured
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.cfg.From, n.cfg.To, subject, body)

	var auth smtp.Auth
	if n.cfg.Password != "" {
		auth = smtp.PlainAuth("", n.cfg.From, n.cfg.Password, n.cfg.Host)
	}

	return smtp.SendMail(addr, auth, n.cfg.From, []string{n.cfg.To}, []byte(msg))
}
