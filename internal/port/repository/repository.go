// Package repository defines the persistence ports (interfaces).
//
// Repositories are synchronous and have no side effects beyond their
// store. There is no isolation between a snapshot read and a compensating
// restore; callers are single-writer by contract.
package repository

import (
	"context"

	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/domain/task"
)

// TaskRepository is the port interface for task persistence.
type TaskRepository interface {
	// Get returns the task with the given id, or an error wrapping
	// domain.ErrNotFound.
	Get(ctx context.Context, id string) (*task.Task, error)

	// Save inserts or updates the task.
	Save(ctx context.Context, t *task.Task) error

	// Delete removes the task. Deleting an absent task is a no-op.
	Delete(ctx context.Context, id string) error

	// FindByProject returns all tasks assigned to the project.
	FindByProject(ctx context.Context, projectID string) ([]*task.Task, error)

	// GetActiveTasks returns all tasks whose status is not DONE.
	GetActiveTasks(ctx context.Context) ([]*task.Task, error)
}

// ProjectRepository is the port interface for project persistence.
type ProjectRepository interface {
	// Get returns the project with the given id, hydrated with its tasks,
	// or an error wrapping domain.ErrNotFound.
	Get(ctx context.Context, id string) (*project.Project, error)

	// Save inserts or updates the project.
	Save(ctx context.Context, p *project.Project) error

	// Delete removes the project. Deleting an absent project is a no-op.
	// Owned tasks are the caller's responsibility.
	Delete(ctx context.Context, id string) error

	// GetAll returns every project, hydrated.
	GetAll(ctx context.Context) ([]*project.Project, error)

	// GetInbox returns the INBOX project, creating and persisting it on
	// first access. Each repository instance holds exactly one INBOX.
	GetInbox(ctx context.Context) (*project.Project, error)
}
