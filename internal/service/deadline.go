package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskwell/taskwell/internal/port/notifier"
	"github.com/taskwell/taskwell/internal/port/repository"
	"github.com/taskwell/taskwell/internal/result"
)

// DeadlineService scans active tasks and warns about approaching
// deadlines.
type DeadlineService struct {
	tasks     repository.TaskRepository
	notifier  notifier.Notifier
	threshold time.Duration
}

// NewDeadlineService creates a DeadlineService warning about deadlines
// within threshold. notifier may be nil.
func NewDeadlineService(tasks repository.TaskRepository, n notifier.Notifier, threshold time.Duration) *DeadlineService {
	return &DeadlineService{tasks: tasks, notifier: n, threshold: threshold}
}

// CheckDeadlines fires DeadlineApproaching for every active task whose
// deadline falls within the warning threshold. Notification failures are
// logged and skipped; the scan itself still succeeds.
func (s *DeadlineService) CheckDeadlines(ctx context.Context) result.Result[DeadlineCheckResponse] {
	active, err := s.tasks.GetActiveTasks(ctx)
	if err != nil {
		return result.Failure[DeadlineCheckResponse](classify(err))
	}

	sent := 0
	for _, t := range active {
		d := t.Deadline()
		if d == nil || !d.IsApproaching(s.threshold) {
			continue
		}
		if s.notifier == nil {
			continue
		}
		daysRemaining := int(d.TimeRemaining() / (24 * time.Hour))
		if err := s.notifier.DeadlineApproaching(ctx, t, daysRemaining); err != nil {
			slog.Warn("deadline notification failed", "task_id", t.ID(), "error", err)
			continue
		}
		sent++
	}

	slog.Info("deadline check finished", "tasks_checked", len(active), "notifications_sent", sent)
	return result.Success(DeadlineCheckResponse{
		TasksChecked:      len(active),
		NotificationsSent: sent,
	})
}
