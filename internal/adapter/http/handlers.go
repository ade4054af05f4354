// Package http provides the chi-based HTTP surface for Taskwell.
package http

import (
	"net/http"

	"github.com/taskwell/taskwell/internal/service"
)

// Handlers bundles the services the HTTP surface exposes.
type Handlers struct {
	tasks     *service.TaskService
	projects  *service.ProjectService
	deadlines *service.DeadlineService
}

// NewHandlers creates the handler set.
func NewHandlers(tasks *service.TaskService, projects *service.ProjectService, deadlines *service.DeadlineService) *Handlers {
	return &Handlers{tasks: tasks, projects: projects, deadlines: deadlines}
}

// --- Tasks ---

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[service.CreateTaskRequest](w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusCreated, h.tasks.Create(r.Context(), req))
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.tasks.Get(r.Context(), urlParam(r, "id")))
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.tasks.Delete(r.Context(), urlParam(r, "id")))
}

type completeTaskRequest struct {
	Notes string `json:"notes"`
}

func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[completeTaskRequest](w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, h.tasks.Complete(r.Context(), urlParam(r, "id"), req.Notes))
}

func (h *Handlers) StartTask(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.tasks.Start(r.Context(), urlParam(r, "id")))
}

type setPriorityRequest struct {
	Priority string `json:"priority"`
}

func (h *Handlers) SetTaskPriority(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[setPriorityRequest](w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, h.tasks.SetPriority(r.Context(), urlParam(r, "id"), req.Priority))
}

func (h *Handlers) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.tasks.ListByProject(r.Context(), urlParam(r, "id")))
}

// --- Projects ---

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[service.CreateProjectRequest](w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusCreated, h.projects.Create(r.Context(), req))
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.projects.Get(r.Context(), urlParam(r, "id")))
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.projects.List(r.Context()))
}

func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[service.UpdateProjectRequest](w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, h.projects.Update(r.Context(), urlParam(r, "id"), req))
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.projects.Delete(r.Context(), urlParam(r, "id")))
}

type completeProjectRequest struct {
	Notes string `json:"notes"`
}

func (h *Handlers) CompleteProject(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[completeProjectRequest](w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, h.projects.Complete(r.Context(), urlParam(r, "id"), req.Notes))
}

// --- Deadlines ---

func (h *Handlers) CheckDeadlines(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.deadlines.CheckDeadlines(r.Context()))
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
