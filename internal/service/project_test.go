package service

import (
	"context"
	"errors"
	"testing"

	"github.com/taskwell/taskwell/internal/domain/project"
	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/result"
)

func TestCreateProjectReservedName(t *testing.T) {
	f := newFixture()
	res := f.projectService().Create(context.Background(), CreateProjectRequest{Name: "INBOX"})
	if res.IsSuccess() || res.Err().Code != result.CodeValidation {
		t.Fatalf("res = %+v", res)
	}
}

func TestListProjectsBootstrapsInbox(t *testing.T) {
	f := newFixture()
	res := f.projectService().List(context.Background())
	if !res.IsSuccess() {
		t.Fatalf("List: %v", res.Err())
	}
	if len(res.Value()) != 1 || res.Value()[0].Type != string(project.TypeInbox) {
		t.Fatalf("projects = %+v", res.Value())
	}
}

func TestUpdateProjectRenameInboxRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.projectService()

	inbox, _ := f.projects.GetInbox(ctx)
	name := "Not Inbox"
	res := svc.Update(ctx, inbox.ID(), UpdateProjectRequest{Name: &name})
	if res.IsSuccess() || res.Err().Code != result.CodeBusinessRule {
		t.Fatalf("res = %+v", res)
	}
}

func TestDeleteProjectRemovesOwnedTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	proj := f.projectService().Create(ctx, CreateProjectRequest{Name: "Work"}).Value()
	id := f.taskService().Create(ctx, CreateTaskRequest{Title: "a", ProjectID: proj.ID}).Value().ID

	res := f.projectService().Delete(ctx, proj.ID)
	if !res.IsSuccess() {
		t.Fatalf("Delete: %v", res.Err())
	}
	if _, err := f.tasks.Get(ctx, id); err == nil {
		t.Fatal("owned task survived project deletion")
	}
}

func TestDeleteInboxRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	inbox, _ := f.projects.GetInbox(ctx)

	res := f.projectService().Delete(ctx, inbox.ID())
	if res.IsSuccess() || res.Err().Code != result.CodeBusinessRule {
		t.Fatalf("res = %+v", res)
	}
}

func TestCompleteProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	projects, tasks := f.projectService(), f.taskService()

	proj := projects.Create(ctx, CreateProjectRequest{Name: "Release"}).Value()
	a := tasks.Create(ctx, CreateTaskRequest{Title: "a", ProjectID: proj.ID}).Value().ID
	b := tasks.Create(ctx, CreateTaskRequest{Title: "b", ProjectID: proj.ID}).Value().ID
	done := tasks.Create(ctx, CreateTaskRequest{Title: "already done", ProjectID: proj.ID}).Value().ID
	if res := tasks.Complete(ctx, done, ""); !res.IsSuccess() {
		t.Fatalf("pre-complete: %v", res.Err())
	}
	f.notifier.completed = nil

	res := projects.Complete(ctx, proj.ID, "shipped")
	if !res.IsSuccess() {
		t.Fatalf("Complete failed: %v", res.Err())
	}
	if res.Value().TasksCompleted != 2 {
		t.Fatalf("tasks completed = %d, want 2", res.Value().TasksCompleted)
	}

	// Exactly one notification per task that was incomplete at the start.
	if len(f.notifier.completed) != 2 {
		t.Fatalf("notifications = %v", f.notifier.completed)
	}
	seen := map[string]bool{}
	for _, id := range f.notifier.completed {
		seen[id] = true
	}
	if !seen[a] || !seen[b] || seen[done] {
		t.Fatalf("notified wrong set: %v", f.notifier.completed)
	}

	stored, _ := f.projects.Get(ctx, proj.ID)
	if stored.Status() != project.StatusCompleted {
		t.Fatal("project completion not persisted")
	}
	for _, id := range []string{a, b} {
		tk, _ := f.tasks.Get(ctx, id)
		if tk.Status() != task.StatusDone {
			t.Fatalf("task %s not DONE in store", id)
		}
	}
}

func TestCompleteEmptyProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.projectService()

	proj := svc.Create(ctx, CreateProjectRequest{Name: "Empty"}).Value()
	res := svc.Complete(ctx, proj.ID, "")
	if !res.IsSuccess() {
		t.Fatalf("Complete failed: %v", res.Err())
	}
	if res.Value().TasksCompleted != 0 || len(f.notifier.completed) != 0 {
		t.Fatalf("empty project: completed=%d notifications=%d",
			res.Value().TasksCompleted, len(f.notifier.completed))
	}
}

func TestCompleteProjectNotFound(t *testing.T) {
	f := newFixture()
	res := f.projectService().Complete(context.Background(), "ghost", "")
	if res.IsSuccess() || res.Err().Code != result.CodeNotFound {
		t.Fatalf("res = %+v", res)
	}
}

func TestCompleteProjectRollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	projects, tasks := f.projectService(), f.taskService()

	proj := projects.Create(ctx, CreateProjectRequest{Name: "Doomed"}).Value()
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		ids = append(ids, tasks.Create(ctx, CreateTaskRequest{Title: title, ProjectID: proj.ID}).Value().ID)
	}

	// Fail the save of the third task only. Restores of the first two
	// must still go through.
	failID := ids[2]
	f.tasks.saveErr = func(t *task.Task) error {
		if t.ID() == failID && t.Status() == task.StatusDone {
			return errors.New("disk full")
		}
		return nil
	}

	res := projects.Complete(ctx, proj.ID, "")
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Err().Code != result.CodeBusinessRule {
		t.Fatalf("code = %s", res.Err().Code)
	}

	// All tasks back to TODO, project still ACTIVE, zero notifications.
	f.tasks.saveErr = nil
	for _, id := range ids {
		tk, err := f.tasks.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get %s: %v", id, err)
		}
		if tk.Status() != task.StatusTodo {
			t.Fatalf("task %s status = %s after rollback", id, tk.Status())
		}
	}
	stored, _ := f.projects.Get(ctx, proj.ID)
	if stored.Status() != project.StatusActive {
		t.Fatal("project mutated despite rollback")
	}
	if len(f.notifier.completed) != 0 {
		t.Fatalf("notifications sent on rollback path: %v", f.notifier.completed)
	}
}

func TestCompleteProjectRollsBackOnProjectSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	projects, tasks := f.projectService(), f.taskService()

	proj := projects.Create(ctx, CreateProjectRequest{Name: "Doomed"}).Value()
	id := tasks.Create(ctx, CreateTaskRequest{Title: "one", ProjectID: proj.ID}).Value().ID

	f.projects.saveErr = func(p *project.Project) error {
		if p.Status() == project.StatusCompleted {
			return errors.New("disk full")
		}
		return nil
	}

	res := projects.Complete(ctx, proj.ID, "")
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}

	f.projects.saveErr = nil
	tk, _ := f.tasks.Get(ctx, id)
	if tk.Status() != task.StatusTodo {
		t.Fatal("task not restored after project save failure")
	}
	if len(f.notifier.completed) != 0 {
		t.Fatal("notifications sent on rollback path")
	}
}

func TestCompleteInboxAlwaysFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	inbox, _ := f.projects.GetInbox(ctx)
	id := f.taskService().Create(ctx, CreateTaskRequest{Title: "captured"}).Value().ID

	res := f.projectService().Complete(ctx, inbox.ID(), "")
	if res.IsSuccess() {
		t.Fatal("inbox completion must fail")
	}
	if res.Err().Code != result.CodeBusinessRule {
		t.Fatalf("code = %s", res.Err().Code)
	}

	// The inbox task mutated before the rule fired must be restored.
	tk, _ := f.tasks.Get(ctx, id)
	if tk.Status() != task.StatusTodo {
		t.Fatalf("inbox task status = %s after failed completion", tk.Status())
	}
	if len(f.notifier.completed) != 0 {
		t.Fatal("notifications sent for failed inbox completion")
	}
}

func TestCompleteProjectNotifierFailureKeepsCommit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	projects, tasks := f.projectService(), f.taskService()

	proj := projects.Create(ctx, CreateProjectRequest{Name: "Release"}).Value()
	_ = tasks.Create(ctx, CreateTaskRequest{Title: "a", ProjectID: proj.ID})
	f.notifier.err = errors.New("webhook down")

	res := projects.Complete(ctx, proj.ID, "")
	if res.IsSuccess() {
		t.Fatal("expected failure when notifications fail")
	}

	// Persistence stays committed.
	stored, _ := f.projects.Get(ctx, proj.ID)
	if stored.Status() != project.StatusCompleted {
		t.Fatal("notification failure undid the committed completion")
	}
}
