// Package task defines the Task domain entity.
//
// A Task is mutated only through its own methods, which enforce the legal
// status transitions and return wrapped sentinel errors instead of leaving
// the entity in an illegal state.
package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskwell/taskwell/internal/domain"
)

// Status represents the current state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority converts a string to a Priority. An empty string defaults
// to MEDIUM.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("unknown priority %q: %w", s, domain.ErrValidation)
	}
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

// Task represents a unit of work belonging to exactly one project.
type Task struct {
	id              string
	projectID       string
	title           string
	description     string
	priority        Priority
	status          Status
	deadline        *Deadline
	completedAt     *time.Time
	completionNotes string
	createdAt       time.Time
}

// Params holds the fields needed to create a new task.
type Params struct {
	Title       string
	Description string
	ProjectID   string
	Priority    Priority
	Deadline    *Deadline
}

// New creates a task in TODO status after validating the parameters.
func New(p Params) (*Task, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if len(p.Title) > maxTitleLen {
		return nil, fmt.Errorf("title exceeds %d characters: %w", maxTitleLen, domain.ErrValidation)
	}
	if len(p.Description) > maxDescriptionLen {
		return nil, fmt.Errorf("description exceeds %d characters: %w", maxDescriptionLen, domain.ErrValidation)
	}
	priority := p.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if priority != PriorityLow && priority != PriorityMedium && priority != PriorityHigh {
		return nil, fmt.Errorf("unknown priority %q: %w", priority, domain.ErrValidation)
	}

	return &Task{
		id:          uuid.NewString(),
		projectID:   p.ProjectID,
		title:       p.Title,
		description: p.Description,
		priority:    priority,
		status:      StatusTodo,
		deadline:    p.Deadline,
		createdAt:   time.Now().UTC(),
	}, nil
}

func (t *Task) ID() string          { return t.id }
func (t *Task) ProjectID() string   { return t.projectID }
func (t *Task) Title() string       { return t.title }
func (t *Task) Description() string { return t.description }
func (t *Task) Priority() Priority  { return t.priority }
func (t *Task) Status() Status      { return t.status }
func (t *Task) Deadline() *Deadline { return t.deadline }
func (t *Task) CreatedAt() time.Time {
	return t.createdAt
}

// CompletedAt returns the completion timestamp, or nil while the task is
// not DONE.
func (t *Task) CompletedAt() *time.Time { return t.completedAt }

// CompletionNotes returns the notes recorded by Complete. Empty until the
// task is completed.
func (t *Task) CompletionNotes() string { return t.completionNotes }

// Start marks the task as in progress. Only TODO tasks can be started.
func (t *Task) Start() error {
	if t.status != StatusTodo {
		return fmt.Errorf("only tasks with 'TODO' status can be started: %w", domain.ErrValidation)
	}
	t.status = StatusInProgress
	return nil
}

// Complete marks the task as done, recording the completion time and the
// optional notes together. Completing an already-DONE task fails and leaves
// the first completion untouched.
func (t *Task) Complete(notes string) error {
	if t.status == StatusDone {
		return fmt.Errorf("task is already completed: %w", domain.ErrValidation)
	}
	now := time.Now().UTC()
	t.status = StatusDone
	t.completedAt = &now
	t.completionNotes = notes
	return nil
}

// Reopen resets a task to TODO, clearing any completion state. This is the
// one sanctioned way back from DONE.
func (t *Task) Reopen() {
	t.status = StatusTodo
	t.completedAt = nil
	t.completionNotes = ""
}

// SetPriority changes the task's priority.
func (t *Task) SetPriority(p Priority) error {
	if p != PriorityLow && p != PriorityMedium && p != PriorityHigh {
		return fmt.Errorf("unknown priority %q: %w", p, domain.ErrValidation)
	}
	t.priority = p
	return nil
}

// Reassign moves the task to another project. Called by Project.AddTask to
// keep the back-link consistent.
func (t *Task) Reassign(projectID string) {
	t.projectID = projectID
}

// IsOverdue reports whether the task has a deadline in the past.
func (t *Task) IsOverdue() bool {
	return t.deadline != nil && t.deadline.IsOverdue()
}

// Record is the persistence projection of a Task. Adapters store Records
// and rebuild entities with FromRecord.
type Record struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Record returns a deep persistence projection of the task.
func (t *Task) Record() Record {
	r := Record{
		ID:              t.id,
		ProjectID:       t.projectID,
		Title:           t.title,
		Description:     t.description,
		Priority:        string(t.priority),
		Status:          string(t.status),
		CompletionNotes: t.completionNotes,
		CreatedAt:       t.createdAt,
	}
	if t.deadline != nil {
		due := t.deadline.Due()
		r.DueDate = &due
	}
	if t.completedAt != nil {
		at := *t.completedAt
		r.CompletedAt = &at
	}
	return r
}

// FromRecord rebuilds a task from stored state. No validation is applied;
// stored deadlines may legitimately be in the past by now.
func FromRecord(r Record) *Task {
	t := &Task{
		id:              r.ID,
		projectID:       r.ProjectID,
		title:           r.Title,
		description:     r.Description,
		priority:        Priority(r.Priority),
		status:          Status(r.Status),
		completionNotes: r.CompletionNotes,
		createdAt:       r.CreatedAt,
	}
	if r.DueDate != nil {
		t.deadline = &Deadline{due: *r.DueDate}
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		t.completedAt = &at
	}
	return t
}

// Clone returns a deep, independent copy of the task, used as a snapshot
// for compensation.
func (t *Task) Clone() *Task {
	return FromRecord(t.Record())
}
