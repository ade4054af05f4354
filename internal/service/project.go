package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taskwell/taskwell/internal/adapter/otel"
	"github.com/taskwell/taskwell/internal/domain"
	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/port/notifier"
	"github.com/taskwell/taskwell/internal/port/repository"
	"github.com/taskwell/taskwell/internal/result"
)

// ProjectService orchestrates project use cases, including the
// all-or-nothing CompleteProject operation.
type ProjectService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	notifier notifier.Notifier
	metrics  *otel.Metrics
}

// NewProjectService creates a ProjectService. notifier and metrics may be
// nil.
func NewProjectService(tasks repository.TaskRepository, projects repository.ProjectRepository, n notifier.Notifier, metrics *otel.Metrics) *ProjectService {
	return &ProjectService{tasks: tasks, projects: projects, notifier: n, metrics: metrics}
}

// Create creates a regular project. The reserved INBOX name is rejected
// by the entity constructor.
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) result.Result[ProjectResponse] {
	p, err := project.New(req.Name, req.Description)
	if err != nil {
		return result.Failure[ProjectResponse](classify(err))
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return result.Failure[ProjectResponse](classify(err))
	}
	slog.Info("project created", "project_id", p.ID(), "name", p.Name())
	return result.Success(newProjectResponse(p))
}

// Get returns a project hydrated with its tasks.
func (s *ProjectService) Get(ctx context.Context, id string) result.Result[ProjectResponse] {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.Failure[ProjectResponse](result.NotFound("project", id))
		}
		return result.Failure[ProjectResponse](classify(err))
	}
	return result.Success(newProjectResponse(p))
}

// List returns every project. The INBOX is fetched first so a fresh store
// bootstraps it before listing.
func (s *ProjectService) List(ctx context.Context) result.Result[[]ProjectResponse] {
	if _, err := s.projects.GetInbox(ctx); err != nil {
		return result.Failure[[]ProjectResponse](classify(err))
	}
	all, err := s.projects.GetAll(ctx)
	if err != nil {
		return result.Failure[[]ProjectResponse](classify(err))
	}
	out := make([]ProjectResponse, 0, len(all))
	for _, p := range all {
		out = append(out, newProjectResponse(p))
	}
	return result.Success(out)
}

// Update renames a project and/or replaces its description. Renaming the
// INBOX is rejected by the entity.
func (s *ProjectService) Update(ctx context.Context, id string, req UpdateProjectRequest) result.Result[ProjectResponse] {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.Failure[ProjectResponse](result.NotFound("project", id))
		}
		return result.Failure[ProjectResponse](classify(err))
	}

	if req.Name != nil {
		if err := p.Rename(*req.Name); err != nil {
			return result.Failure[ProjectResponse](classify(err))
		}
	}
	if req.Description != nil {
		if err := p.SetDescription(*req.Description); err != nil {
			return result.Failure[ProjectResponse](classify(err))
		}
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return result.Failure[ProjectResponse](classify(err))
	}
	return result.Success(newProjectResponse(p))
}

// Delete removes a project and its owned tasks. The INBOX can never be
// deleted.
func (s *ProjectService) Delete(ctx context.Context, id string) result.Result[DeleteResponse] {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.Failure[DeleteResponse](result.NotFound("project", id))
		}
		return result.Failure[DeleteResponse](classify(err))
	}
	if p.IsInbox() {
		return result.Failure[DeleteResponse](result.BusinessRule("the INBOX project cannot be deleted"))
	}

	for _, t := range p.Tasks() {
		if err := s.tasks.Delete(ctx, t.ID()); err != nil {
			return result.Failure[DeleteResponse](classify(err))
		}
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return result.Failure[DeleteResponse](classify(err))
	}
	slog.Info("project deleted", "project_id", id)
	return result.Success(DeleteResponse{ID: id})
}

// Complete completes every incomplete task in the project, then the
// project itself, all-or-nothing. Completions are announced only after
// every write has committed, once per task that was incomplete when the
// operation began. On any mutate or persist failure every task snapshot
// already saved is restored in order.
func (s *ProjectService) Complete(ctx context.Context, id, notes string) result.Result[CompleteProjectResponse] {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result.Failure[CompleteProjectResponse](result.NotFound("project", id))
		}
		return result.Failure[CompleteProjectResponse](classify(err))
	}

	// Snapshot before any mutation. The snapshot's incomplete list is
	// both the rollback source and, later, the notification set.
	snapshot := p.Clone()
	comp := &compensation{}

	fail := func(err error) result.Result[CompleteProjectResponse] {
		s.metrics.AddRollback(ctx)
		comp.restore(ctx)
		slog.Warn("project completion rolled back", "project_id", id, "error", err)
		return result.Failure[CompleteProjectResponse](classify(err))
	}

	for _, t := range p.IncompleteTasks() {
		taskSnapshot := snapshot.Task(t.ID())
		if err := t.Complete(""); err != nil {
			return fail(err)
		}
		if err := s.tasks.Save(ctx, t); err != nil {
			return fail(err)
		}
		comp.deferTaskRestore(s.tasks, taskSnapshot)
	}

	if err := p.MarkCompleted(notes); err != nil {
		return fail(err)
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return fail(err)
	}

	s.metrics.AddProjectCompleted(ctx)
	slog.Info("project completed", "project_id", id, "tasks_completed", len(snapshot.IncompleteTasks()))

	// Committed. Notify once per task that was incomplete at the start,
	// with the live completed task as payload.
	var notifyErr error
	if s.notifier != nil {
		for _, was := range snapshot.IncompleteTasks() {
			if err := s.notifier.TaskCompleted(ctx, p.Task(was.ID())); err != nil {
				slog.Warn("completion notification failed", "task_id", was.ID(), "error", err)
				notifyErr = errors.Join(notifyErr, err)
			}
		}
	}
	if notifyErr != nil {
		return result.Failure[CompleteProjectResponse](result.Validation("project completed but notification failed: " + notifyErr.Error()))
	}

	return result.Success(CompleteProjectResponse{
		Project:        newProjectResponse(p),
		TasksCompleted: len(snapshot.IncompleteTasks()),
	})
}
