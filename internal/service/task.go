// Package service contains the use-case orchestrators. Every operation
// returns a result.Result; multi-write operations execute all-or-nothing
// through the compensation protocol in compensation.go.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taskwell/taskwell/internal/adapter/otel"
	"github.com/taskwell/taskwell/internal/domain"
	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/notifier"
	"github.com/taskwell/taskwell/internal/port/repository"
	"github.com/taskwell/taskwell/internal/result"
)

// TaskService orchestrates task use cases.
type TaskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	notifier notifier.Notifier
	metrics  *otel.Metrics
}

// NewTaskService creates a TaskService. notifier may be nil when no
// notification channel is configured; metrics may be nil.
func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, n notifier.Notifier, metrics *otel.Metrics) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, notifier: n, metrics: metrics}
}

// Create creates a task bound to the requested project, or to the INBOX
// when no project id is given. Single write, no compensation.
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) result.Result[TaskResponse] {
	priority, err := task.ParsePriority(req.Priority)
	if err != nil {
		return result.Failure[TaskResponse](classify(err))
	}

	var deadline *task.Deadline
	if req.DueDate != nil {
		d, err := task.NewDeadline(*req.DueDate)
		if err != nil {
			return result.Failure[TaskResponse](classify(err))
		}
		deadline = &d
	}

	p, fail := s.resolveProject(ctx, req.ProjectID)
	if fail != nil {
		return result.Failure[TaskResponse](fail)
	}

	t, err := task.New(task.Params{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Deadline:    deadline,
	})
	if err != nil {
		return result.Failure[TaskResponse](classify(err))
	}
	if err := p.AddTask(t); err != nil {
		return result.Failure[TaskResponse](classify(err))
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return result.Failure[TaskResponse](classify(err))
	}

	s.metrics.AddTaskCreated(ctx)
	slog.Info("task created", "task_id", t.ID(), "project_id", t.ProjectID())
	return result.Success(newTaskResponse(t))
}

// resolveProject maps an empty id to the INBOX and an explicit id to its
// project, translating an absent project to NOT_FOUND.
func (s *TaskService) resolveProject(ctx context.Context, id string) (*project.Project, *result.Error) {
	if id == "" {
		inbox, err := s.projects.GetInbox(ctx)
		if err != nil {
			return nil, classify(err)
		}
		return inbox, nil
	}
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, result.NotFound("project", id)
		}
		return nil, classify(err)
	}
	return p, nil
}

// Complete marks a task DONE, persists it, and announces the completion.
// A failed domain transition or save leaves the store untouched; a failed
// notification is reported as a failure but the completion stays
// committed.
func (s *TaskService) Complete(ctx context.Context, id, notes string) result.Result[TaskResponse] {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.Failure[TaskResponse](result.NotFound("task", id))
		}
		return result.Failure[TaskResponse](classify(err))
	}

	if err := t.Complete(notes); err != nil {
		return result.Failure[TaskResponse](classify(err))
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return result.Failure[TaskResponse](classify(err))
	}

	s.metrics.AddTaskCompleted(ctx)
	slog.Info("task completed", "task_id", t.ID())

	if s.notifier != nil {
		if err := s.notifier.TaskCompleted(ctx, t); err != nil {
			slog.Warn("completion notification failed", "task_id", t.ID(), "error", err)
			return result.Failure[TaskResponse](result.Validation("task completed but notification failed: " + err.Error()))
		}
	}
	return result.Success(newTaskResponse(t))
}

// Start transitions a task from TODO to IN_PROGRESS.
func (s *TaskService) Start(ctx context.Context, id string) result.Result[TaskResponse] {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.Failure[TaskResponse](result.NotFound("task", id))
		}
		return result.Failure[TaskResponse](classify(err))
	}

	if err := t.Start(); err != nil {
		return result.Failure[TaskResponse](classify(err))
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return result.Failure[TaskResponse](classify(err))
	}
	return result.Success(newTaskResponse(t))
}

// SetPriority updates a task's priority. Raising to HIGH announces the
// task after the save commits.
func (s *TaskService) SetPriority(ctx context.Context, id, priority string) result.Result[TaskResponse] {
	p, err := task.ParsePriority(priority)
	if err != nil {
		return result.Failure[TaskResponse](classify(err))
	}

	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.Failure[TaskResponse](result.NotFound("task", id))
		}
		return result.Failure[TaskResponse](classify(err))
	}

	if err := t.SetPriority(p); err != nil {
		return result.Failure[TaskResponse](classify(err))
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return result.Failure[TaskResponse](classify(err))
	}

	if p == task.PriorityHigh && s.notifier != nil {
		if err := s.notifier.TaskHighPriority(ctx, t); err != nil {
			slog.Warn("high priority notification failed", "task_id", t.ID(), "error", err)
			return result.Failure[TaskResponse](result.Validation("priority updated but notification failed: " + err.Error()))
		}
	}
	return result.Success(newTaskResponse(t))
}

// Get returns a task by id.
func (s *TaskService) Get(ctx context.Context, id string) result.Result[TaskResponse] {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.Failure[TaskResponse](result.NotFound("task", id))
		}
		return result.Failure[TaskResponse](classify(err))
	}
	return result.Success(newTaskResponse(t))
}

// ListByProject returns the tasks assigned to a project.
func (s *TaskService) ListByProject(ctx context.Context, projectID string) result.Result[[]TaskResponse] {
	tasks, err := s.tasks.FindByProject(ctx, projectID)
	if err != nil {
		return result.Failure[[]TaskResponse](classify(err))
	}
	return result.Success(newTaskResponses(tasks))
}

// Delete removes a task. Deleting an absent task succeeds.
func (s *TaskService) Delete(ctx context.Context, id string) result.Result[DeleteResponse] {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return result.Failure[DeleteResponse](classify(err))
	}
	return result.Success(DeleteResponse{ID: id})
}
