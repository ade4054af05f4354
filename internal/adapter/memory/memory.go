// Package memory provides map-backed repositories for tests and for
// running without external storage. The store of record holds persistence
// records, never live entities, so caller-held aggregates cannot alias it.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/taskwell/taskwell/internal/domain"
	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/repository"
)

// Store is the shared backing state for the task and project repositories.
type Store struct {
	mu           sync.Mutex
	tasks        map[string]task.Record
	taskOrder    []string
	projects     map[string]project.Record
	projectOrder []string
	inboxID      string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		tasks:    make(map[string]task.Record),
		projects: make(map[string]project.Record),
	}
}

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() repository.TaskRepository { return &taskRepo{store: s} }

// Projects returns the project repository view of the store.
func (s *Store) Projects() repository.ProjectRepository { return &projectRepo{store: s} }

// hydrate rebuilds a project entity from its record plus its task rows.
// Caller must hold s.mu.
func (s *Store) hydrate(rec project.Record) *project.Project {
	p := project.FromRecord(rec)
	for _, id := range s.taskOrder {
		if r := s.tasks[id]; r.ProjectID == rec.ID {
			p.AttachTask(task.FromRecord(r))
		}
	}
	return p
}

type taskRepo struct {
	store *Store
}

var _ repository.TaskRepository = (*taskRepo)(nil)

func (r *taskRepo) Get(_ context.Context, id string) (*task.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return task.FromRecord(rec), nil
}

func (r *taskRepo) Save(_ context.Context, t *task.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[t.ID()]; !ok {
		r.store.taskOrder = append(r.store.taskOrder, t.ID())
	}
	r.store.tasks[t.ID()] = t.Record()
	return nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[id]; !ok {
		return nil
	}
	delete(r.store.tasks, id)
	for i, tid := range r.store.taskOrder {
		if tid == id {
			r.store.taskOrder = append(r.store.taskOrder[:i], r.store.taskOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *taskRepo) FindByProject(_ context.Context, projectID string) ([]*task.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*task.Task
	for _, id := range r.store.taskOrder {
		if rec := r.store.tasks[id]; rec.ProjectID == projectID {
			out = append(out, task.FromRecord(rec))
		}
	}
	return out, nil
}

func (r *taskRepo) GetActiveTasks(_ context.Context) ([]*task.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*task.Task
	for _, id := range r.store.taskOrder {
		if rec := r.store.tasks[id]; rec.Status != string(task.StatusDone) {
			out = append(out, task.FromRecord(rec))
		}
	}
	return out, nil
}

type projectRepo struct {
	store *Store
}

var _ repository.ProjectRepository = (*projectRepo)(nil)

func (r *projectRepo) Get(_ context.Context, id string) (*project.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return r.store.hydrate(rec), nil
}

func (r *projectRepo) Save(_ context.Context, p *project.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.projects[p.ID()]; !ok {
		r.store.projectOrder = append(r.store.projectOrder, p.ID())
	}
	r.store.projects[p.ID()] = p.Record()
	if p.IsInbox() {
		r.store.inboxID = p.ID()
	}
	return nil
}

func (r *projectRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.projects[id]; !ok {
		return nil
	}
	delete(r.store.projects, id)
	for i, pid := range r.store.projectOrder {
		if pid == id {
			r.store.projectOrder = append(r.store.projectOrder[:i], r.store.projectOrder[i+1:]...)
			break
		}
	}
	if r.store.inboxID == id {
		r.store.inboxID = ""
	}
	return nil
}

func (r *projectRepo) GetAll(_ context.Context) ([]*project.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*project.Project, 0, len(r.store.projectOrder))
	for _, id := range r.store.projectOrder {
		out = append(out, r.store.hydrate(r.store.projects[id]))
	}
	return out, nil
}

func (r *projectRepo) GetInbox(_ context.Context) (*project.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.inboxID != "" {
		if rec, ok := r.store.projects[r.store.inboxID]; ok {
			return r.store.hydrate(rec), nil
		}
	}
	inbox := project.NewInbox()
	r.store.projects[inbox.ID()] = inbox.Record()
	r.store.projectOrder = append(r.store.projectOrder, inbox.ID())
	r.store.inboxID = inbox.ID()
	return inbox, nil
}
