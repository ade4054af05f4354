// Package project defines the Project aggregate, which owns a collection
// of tasks. The INBOX is a special project produced only by NewInbox; the
// reserved name cannot be taken by a regular project and the INBOX can
// never be completed or renamed.
package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskwell/taskwell/internal/domain"
	"github.com/taskwell/taskwell/internal/domain/task"
)

// Type distinguishes the INBOX from user-created projects.
type Type string

const (
	TypeRegular Type = "REGULAR"
	TypeInbox   Type = "INBOX"
)

// Status represents the lifecycle state of a project.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// InboxName is the reserved project name.
const InboxName = "INBOX"

const (
	maxNameLen        = 100
	maxDescriptionLen = 2000
)

// Project is the aggregate root for a set of tasks.
type Project struct {
	id              string
	name            string
	description     string
	typ             Type
	status          Status
	completedAt     *time.Time
	completionNotes string
	tasks           map[string]*task.Task
	taskOrder       []string
	createdAt       time.Time
}

// New creates a regular ACTIVE project. The INBOX name is reserved and
// only obtainable through NewInbox.
func New(name, description string) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if len(name) > maxNameLen {
		return nil, fmt.Errorf("name exceeds %d characters: %w", maxNameLen, domain.ErrValidation)
	}
	if len(description) > maxDescriptionLen {
		return nil, fmt.Errorf("description exceeds %d characters: %w", maxDescriptionLen, domain.ErrValidation)
	}
	if name == InboxName {
		return nil, fmt.Errorf("%q is a reserved project name: %w", InboxName, domain.ErrValidation)
	}
	p := newProject(name, description, TypeRegular)
	return p, nil
}

// NewInbox creates the INBOX project. This is the only construction path
// that yields type INBOX.
func NewInbox() *Project {
	return newProject(InboxName, "Default project for new tasks", TypeInbox)
}

func newProject(name, description string, typ Type) *Project {
	return &Project{
		id:          uuid.NewString(),
		name:        name,
		description: description,
		typ:         typ,
		status:      StatusActive,
		tasks:       make(map[string]*task.Task),
		createdAt:   time.Now().UTC(),
	}
}

func (p *Project) ID() string           { return p.id }
func (p *Project) Name() string         { return p.name }
func (p *Project) Description() string  { return p.description }
func (p *Project) Type() Type           { return p.typ }
func (p *Project) Status() Status       { return p.status }
func (p *Project) CreatedAt() time.Time { return p.createdAt }

// IsInbox reports whether this is the INBOX project.
func (p *Project) IsInbox() bool { return p.typ == TypeInbox }

// CompletedAt returns the completion timestamp, or nil while ACTIVE.
func (p *Project) CompletedAt() *time.Time { return p.completedAt }

// CompletionNotes returns the notes recorded by MarkCompleted.
func (p *Project) CompletionNotes() string { return p.completionNotes }

// AddTask assigns a task to this project, back-linking the task's project
// id. Tasks cannot be added to a COMPLETED project.
func (p *Project) AddTask(t *task.Task) error {
	if p.status == StatusCompleted {
		return fmt.Errorf("cannot add task to completed project: %w", domain.ErrBusinessRule)
	}
	t.Reassign(p.id)
	p.attach(t)
	return nil
}

// AttachTask places a task into the project's collection without any
// checks. It exists for adapters rehydrating stored state and must not be
// used by business code.
func (p *Project) AttachTask(t *task.Task) {
	p.attach(t)
}

func (p *Project) attach(t *task.Task) {
	if _, ok := p.tasks[t.ID()]; !ok {
		p.taskOrder = append(p.taskOrder, t.ID())
	}
	p.tasks[t.ID()] = t
}

// RemoveTask drops a task from the collection. Removing an absent task is
// a no-op.
func (p *Project) RemoveTask(id string) {
	if _, ok := p.tasks[id]; !ok {
		return
	}
	delete(p.tasks, id)
	for i, tid := range p.taskOrder {
		if tid == id {
			p.taskOrder = append(p.taskOrder[:i], p.taskOrder[i+1:]...)
			break
		}
	}
}

// Task returns the owned task with the given id, or nil.
func (p *Project) Task(id string) *task.Task {
	return p.tasks[id]
}

// Tasks returns the owned tasks in insertion order.
func (p *Project) Tasks() []*task.Task {
	out := make([]*task.Task, 0, len(p.taskOrder))
	for _, id := range p.taskOrder {
		out = append(out, p.tasks[id])
	}
	return out
}

// IncompleteTasks returns the owned tasks that are not DONE, in insertion
// order.
func (p *Project) IncompleteTasks() []*task.Task {
	var out []*task.Task
	for _, id := range p.taskOrder {
		if t := p.tasks[id]; t.Status() != task.StatusDone {
			out = append(out, t)
		}
	}
	return out
}

// MarkCompleted transitions the project to COMPLETED. The INBOX can never
// be completed, and a project with incomplete tasks cannot be completed.
func (p *Project) MarkCompleted(notes string) error {
	if p.typ == TypeInbox {
		return fmt.Errorf("the INBOX project cannot be completed: %w", domain.ErrBusinessRule)
	}
	if p.status == StatusCompleted {
		return fmt.Errorf("project is already completed: %w", domain.ErrValidation)
	}
	if n := len(p.IncompleteTasks()); n > 0 {
		return fmt.Errorf("project has %d incomplete tasks: %w", n, domain.ErrBusinessRule)
	}
	now := time.Now().UTC()
	p.status = StatusCompleted
	p.completedAt = &now
	p.completionNotes = notes
	return nil
}

// Reactivate returns a COMPLETED project to ACTIVE, clearing completion
// state. Used by compensation to restore a snapshot.
func (p *Project) Reactivate() {
	p.status = StatusActive
	p.completedAt = nil
	p.completionNotes = ""
}

// Rename changes the project name. The INBOX cannot be renamed and the
// reserved name cannot be taken.
func (p *Project) Rename(name string) error {
	if p.typ == TypeInbox {
		return fmt.Errorf("the INBOX project cannot be renamed: %w", domain.ErrBusinessRule)
	}
	if name == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("name exceeds %d characters: %w", maxNameLen, domain.ErrValidation)
	}
	if name == InboxName {
		return fmt.Errorf("%q is a reserved project name: %w", InboxName, domain.ErrValidation)
	}
	p.name = name
	return nil
}

// SetDescription replaces the project description.
func (p *Project) SetDescription(description string) error {
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters: %w", maxDescriptionLen, domain.ErrValidation)
	}
	p.description = description
	return nil
}

// Record is the persistence projection of a Project, without its tasks.
// Adapters persist task rows separately and rehydrate with FromRecord plus
// AttachTask.
type Record struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Record returns the persistence projection of the project.
func (p *Project) Record() Record {
	r := Record{
		ID:              p.id,
		Name:            p.name,
		Description:     p.description,
		Type:            string(p.typ),
		Status:          string(p.status),
		CompletionNotes: p.completionNotes,
		CreatedAt:       p.createdAt,
	}
	if p.completedAt != nil {
		at := *p.completedAt
		r.CompletedAt = &at
	}
	return r
}

// FromRecord rebuilds a project from stored state with an empty task
// collection. No validation is applied.
func FromRecord(r Record) *Project {
	p := &Project{
		id:              r.ID,
		name:            r.Name,
		description:     r.Description,
		typ:             Type(r.Type),
		status:          Status(r.Status),
		completionNotes: r.CompletionNotes,
		tasks:           make(map[string]*task.Task),
		createdAt:       r.CreatedAt,
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		p.completedAt = &at
	}
	return p
}

// Clone returns a deep copy of the project, including deep copies of every
// owned task. Used as a compensation snapshot.
func (p *Project) Clone() *Project {
	cp := FromRecord(p.Record())
	for _, id := range p.taskOrder {
		cp.attach(p.tasks[id].Clone())
	}
	return cp
}
