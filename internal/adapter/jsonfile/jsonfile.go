// Package jsonfile provides flat-file repositories backed by tasks.json
// and projects.json in a data directory. Every mutation rewrites the
// affected file, so state survives process restarts, including the
// bootstrapped INBOX.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/taskwell/taskwell/internal/domain"
	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/repository"
)

const (
	tasksFile    = "tasks.json"
	projectsFile = "projects.json"
)

// Store owns the data directory and the in-memory view of its files.
type Store struct {
	mu       sync.Mutex
	dir      string
	tasks    []task.Record
	projects []project.Record
}

// NewStore loads (or initializes) the data directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir}
	if err := loadFile(filepath.Join(dir, tasksFile), &s.tasks); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(dir, projectsFile), &s.projects); err != nil {
		return nil, err
	}
	return s, nil
}

func loadFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, src any) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *Store) flushTasks() error {
	return writeFile(filepath.Join(s.dir, tasksFile), s.tasks)
}

func (s *Store) flushProjects() error {
	return writeFile(filepath.Join(s.dir, projectsFile), s.projects)
}

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() repository.TaskRepository { return &taskRepo{store: s} }

// Projects returns the project repository view of the store.
func (s *Store) Projects() repository.ProjectRepository { return &projectRepo{store: s} }

// hydrate rebuilds a project entity from its record plus its task rows.
// Caller must hold s.mu.
func (s *Store) hydrate(rec project.Record) *project.Project {
	p := project.FromRecord(rec)
	for _, r := range s.tasks {
		if r.ProjectID == rec.ID {
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

	for _, rec := range r.store.tasks {
		if rec.ID == id {
			return task.FromRecord(rec), nil
		}
	}
	return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
}

func (r *taskRepo) Save(_ context.Context, t *task.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := t.Record()
	for i := range r.store.tasks {
		if r.store.tasks[i].ID == rec.ID {
			r.store.tasks[i] = rec
			return r.store.flushTasks()
		}
	}
	r.store.tasks = append(r.store.tasks, rec)
	return r.store.flushTasks()
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.tasks {
		if r.store.tasks[i].ID == id {
			r.store.tasks = append(r.store.tasks[:i], r.store.tasks[i+1:]...)
			return r.store.flushTasks()
		}
	}
	return nil
}

func (r *taskRepo) FindByProject(_ context.Context, projectID string) ([]*task.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*task.Task
	for _, rec := range r.store.tasks {
		if rec.ProjectID == projectID {
			out = append(out, task.FromRecord(rec))
		}
	}
	return out, nil
}

func (r *taskRepo) GetActiveTasks(_ context.Context) ([]*task.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*task.Task
	for _, rec := range r.store.tasks {
		if rec.Status != string(task.StatusDone) {
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

	for _, rec := range r.store.projects {
		if rec.ID == id {
			return r.store.hydrate(rec), nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
}

func (r *projectRepo) Save(_ context.Context, p *project.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := p.Record()
	for i := range r.store.projects {
		if r.store.projects[i].ID == rec.ID {
			r.store.projects[i] = rec
			return r.store.flushProjects()
		}
	}
	r.store.projects = append(r.store.projects, rec)
	return r.store.flushProjects()
}

func (r *projectRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.projects {
		if r.store.projects[i].ID == id {
			r.store.projects = append(r.store.projects[:i], r.store.projects[i+1:]...)
			return r.store.flushProjects()
		}
	}
	return nil
}

func (r *projectRepo) GetAll(_ context.Context) ([]*project.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*project.Project, 0, len(r.store.projects))
	for _, rec := range r.store.projects {
		out = append(out, r.store.hydrate(rec))
	}
	return out, nil
}

func (r *projectRepo) GetInbox(_ context.Context) (*project.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.projects {
		if rec.Type == string(project.TypeInbox) {
			return r.store.hydrate(rec), nil
		}
	}
	inbox := project.NewInbox()
	r.store.projects = append(r.store.projects, inbox.Record())
	if err := r.store.flushProjects(); err != nil {
		return nil, err
	}
	return inbox, nil
}
