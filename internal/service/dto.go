package service

import (
	"time"

	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/domain/task"
)

// CreateTaskRequest carries the fields for creating a task. An empty
// ProjectID assigns the task to the INBOX.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   string     `json:"project_id"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateProjectRequest carries the fields for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateProjectRequest carries optional project updates. Nil fields are
// left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// TaskResponse is the outward representation of a task.
type TaskResponse struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Overdue         bool       `json:"overdue"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func newTaskResponse(t *task.Task) TaskResponse {
	r := t.Record()
	return TaskResponse{
		ID:              r.ID,
		ProjectID:       r.ProjectID,
		Title:           r.Title,
		Description:     r.Description,
		Priority:        r.Priority,
		Status:          r.Status,
		DueDate:         r.DueDate,
		Overdue:         t.IsOverdue(),
		CompletedAt:     r.CompletedAt,
		CompletionNotes: r.CompletionNotes,
		CreatedAt:       r.CreatedAt,
	}
}

func newTaskResponses(tasks []*task.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

// ProjectResponse is the outward representation of a project with its
// owned tasks.
type ProjectResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Type            string         `json:"type"`
	Status          string         `json:"status"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	CompletionNotes string         `json:"completion_notes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Tasks           []TaskResponse `json:"tasks"`
}

func newProjectResponse(p *project.Project) ProjectResponse {
	r := p.Record()
	return ProjectResponse{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Type:            r.Type,
		Status:          r.Status,
		CompletedAt:     r.CompletedAt,
		CompletionNotes: r.CompletionNotes,
		CreatedAt:       r.CreatedAt,
		Tasks:           newTaskResponses(p.Tasks()),
	}
}

// CompleteProjectResponse reports a committed project completion.
type CompleteProjectResponse struct {
	Project        ProjectResponse `json:"project"`
	TasksCompleted int             `json:"tasks_completed"`
}

// DeleteResponse confirms a delete operation.
type DeleteResponse struct {
	ID string `json:"id"`
}

// DeadlineCheckResponse reports the outcome of a deadline scan.
type DeadlineCheckResponse struct {
	TasksChecked      int `json:"tasks_checked"`
	NotificationsSent int `json:"notifications_sent"`
}
