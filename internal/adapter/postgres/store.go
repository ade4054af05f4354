package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskwell/taskwell/internal/domain"
	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/repository"
)

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

const taskColumns = `id, project_id, title, description, priority, status, due_date, completed_at, completion_notes, created_at`

func scanTask(row scannable) (task.Record, error) {
	var r task.Record
	err := row.Scan(&r.ID, &r.ProjectID, &r.Title, &r.Description, &r.Priority,
		&r.Status, &r.DueDate, &r.CompletedAt, &r.CompletionNotes, &r.CreatedAt)
	return r, err
}

const projectColumns = `id, name, description, type, status, completed_at, completion_notes, created_at`

func scanProject(row scannable) (project.Record, error) {
	var r project.Record
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Type, &r.Status,
		&r.CompletedAt, &r.CompletionNotes, &r.CreatedAt)
	return r, err
}

// TaskStore implements repository.TaskRepository using PostgreSQL.
type TaskStore struct {
	pool *pgxpool.Pool
}

var _ repository.TaskRepository = (*TaskStore)(nil)

// NewTaskStore creates a task repository backed by the given pool.
func NewTaskStore(pool *pgxpool.Pool) *TaskStore {
	return &TaskStore{pool: pool}
}

func (s *TaskStore) Get(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	r, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return task.FromRecord(r), nil
}

func (s *TaskStore) Save(ctx context.Context, t *task.Task) error {
	r := t.Record()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   project_id = EXCLUDED.project_id,
		   title = EXCLUDED.title,
		   description = EXCLUDED.description,
		   priority = EXCLUDED.priority,
		   status = EXCLUDED.status,
		   due_date = EXCLUDED.due_date,
		   completed_at = EXCLUDED.completed_at,
		   completion_notes = EXCLUDED.completion_notes`,
		r.ID, r.ProjectID, r.Title, r.Description, r.Priority,
		r.Status, r.DueDate, r.CompletedAt, r.CompletionNotes, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("save task %s: %w", r.ID, err)
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	// Deleting an absent task is a no-op, so the affected-row count is
	// deliberately not checked.
	if _, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func (s *TaskStore) FindByProject(ctx context.Context, projectID string) ([]*task.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("find tasks by project %s: %w", projectID, err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *TaskStore) GetActiveTasks(ctx context.Context) ([]*task.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status <> 'DONE' ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("get active tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]*task.Task, error) {
	var out []*task.Task
	for rows.Next() {
		r, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task.FromRecord(r))
	}
	return out, rows.Err()
}

// ProjectStore implements repository.ProjectRepository using PostgreSQL.
type ProjectStore struct {
	pool  *pgxpool.Pool
	tasks *TaskStore
}

var _ repository.ProjectRepository = (*ProjectStore)(nil)

// NewProjectStore creates a project repository backed by the given pool.
func NewProjectStore(pool *pgxpool.Pool) *ProjectStore {
	return &ProjectStore{pool: pool, tasks: NewTaskStore(pool)}
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*project.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)

	r, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return s.hydrate(ctx, r)
}

func (s *ProjectStore) hydrate(ctx context.Context, r project.Record) (*project.Project, error) {
	p := project.FromRecord(r)
	owned, err := s.tasks.FindByProject(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range owned {
		p.AttachTask(t)
	}
	return p, nil
}

func (s *ProjectStore) Save(ctx context.Context, p *project.Project) error {
	r := p.Record()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   description = EXCLUDED.description,
		   status = EXCLUDED.status,
		   completed_at = EXCLUDED.completed_at,
		   completion_notes = EXCLUDED.completion_notes`,
		r.ID, r.Name, r.Description, r.Type, r.Status,
		r.CompletedAt, r.CompletionNotes, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("save project %s: %w", r.ID, err)
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

func (s *ProjectStore) GetAll(ctx context.Context) ([]*project.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var records []project.Record
	for rows.Next() {
		r, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*project.Project, 0, len(records))
	for _, r := range records {
		p, err := s.hydrate(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *ProjectStore) GetInbox(ctx context.Context) (*project.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE type = 'INBOX'`)

	r, err := scanProject(row)
	if err == nil {
		return s.hydrate(ctx, r)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get inbox: %w", err)
	}

	// First access. The partial unique index on type makes a concurrent
	// double insert impossible; losing the race surfaces as a conflict
	// and the caller retries.
	inbox := project.NewInbox()
	if err := s.Save(ctx, inbox); err != nil {
		return nil, fmt.Errorf("bootstrap inbox: %w", err)
	}
	return inbox, nil
}
