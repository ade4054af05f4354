package service

import (
	"context"

	"github.com/taskwell/taskwell/internal/adapter/memory"
	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/notifier"
	"github.com/taskwell/taskwell/internal/port/repository"
)

// mockTaskRepo wraps the in-memory repository with error injection hooks.
type mockTaskRepo struct {
	repository.TaskRepository
	saveErr func(t *task.Task) error
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	if m.saveErr != nil {
		if err := m.saveErr(t); err != nil {
			return err
		}
	}
	return m.TaskRepository.Save(ctx, t)
}

// mockProjectRepo wraps the in-memory repository with error injection hooks.
type mockProjectRepo struct {
	repository.ProjectRepository
	saveErr func(p *project.Project) error
}

func (m *mockProjectRepo) Save(ctx context.Context, p *project.Project) error {
	if m.saveErr != nil {
		if err := m.saveErr(p); err != nil {
			return err
		}
	}
	return m.ProjectRepository.Save(ctx, p)
}

// mockNotifier records events and optionally fails every send.
type mockNotifier struct {
	completed    []string
	highPriority []string
	deadlines    []string
	err          error
}

var _ notifier.Notifier = (*mockNotifier)(nil)

func (m *mockNotifier) Name() string { return "mock" }

func (m *mockNotifier) TaskCompleted(_ context.Context, t *task.Task) error {
	if m.err != nil {
		return m.err
	}
	m.completed = append(m.completed, t.ID())
	return nil
}

func (m *mockNotifier) TaskHighPriority(_ context.Context, t *task.Task) error {
	if m.err != nil {
		return m.err
	}
	m.highPriority = append(m.highPriority, t.ID())
	return nil
}

func (m *mockNotifier) DeadlineApproaching(_ context.Context, t *task.Task, _ int) error {
	if m.err != nil {
		return m.err
	}
	m.deadlines = append(m.deadlines, t.ID())
	return nil
}

type fixture struct {
	tasks    *mockTaskRepo
	projects *mockProjectRepo
	notifier *mockNotifier
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		tasks:    &mockTaskRepo{TaskRepository: store.Tasks()},
		projects: &mockProjectRepo{ProjectRepository: store.Projects()},
		notifier: &mockNotifier{},
	}
}

func (f *fixture) taskService() *TaskService {
	return NewTaskService(f.tasks, f.projects, f.notifier, nil)
}

func (f *fixture) projectService() *ProjectService {
	return NewProjectService(f.tasks, f.projects, f.notifier, nil)
}
