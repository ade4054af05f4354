package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/result"
)

func TestCreateTaskDefaultsToInbox(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.taskService()

	res := svc.Create(ctx, CreateTaskRequest{Title: "capture me"})
	if !res.IsSuccess() {
		t.Fatalf("Create failed: %v", res.Err())
	}

	inbox, err := f.projects.GetInbox(ctx)
	if err != nil {
		t.Fatalf("GetInbox: %v", err)
	}
	if res.Value().ProjectID != inbox.ID() {
		t.Fatalf("task project = %s, want inbox %s", res.Value().ProjectID, inbox.ID())
	}

	stored, err := f.tasks.Get(ctx, res.Value().ID)
	if err != nil {
		t.Fatalf("task not persisted: %v", err)
	}
	if stored.ProjectID() != inbox.ID() {
		t.Fatal("persisted task not bound to inbox")
	}
}

func TestCreateTaskExplicitProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	proj := f.projectService().Create(ctx, CreateProjectRequest{Name: "Work"})
	if !proj.IsSuccess() {
		t.Fatalf("Create project failed: %v", proj.Err())
	}

	res := f.taskService().Create(ctx, CreateTaskRequest{Title: "report", ProjectID: proj.Value().ID})
	if !res.IsSuccess() {
		t.Fatalf("Create failed: %v", res.Err())
	}
	if res.Value().ProjectID != proj.Value().ID {
		t.Fatal("task not bound to requested project")
	}
}

func TestCreateTaskUnknownProject(t *testing.T) {
	f := newFixture()
	res := f.taskService().Create(context.Background(), CreateTaskRequest{Title: "t", ProjectID: "nope"})
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Err().Code != result.CodeNotFound {
		t.Fatalf("code = %s", res.Err().Code)
	}
	if res.Err().Message != "project with id nope not found" {
		t.Fatalf("message = %q", res.Err().Message)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	res := svc.Create(context.Background(), CreateTaskRequest{Title: ""})
	if res.IsSuccess() || res.Err().Code != result.CodeValidation {
		t.Fatalf("empty title: %+v", res)
	}

	past := time.Now().Add(-time.Hour)
	res = svc.Create(context.Background(), CreateTaskRequest{Title: "t", DueDate: &past})
	if res.IsSuccess() || res.Err().Code != result.CodeValidation {
		t.Fatalf("past due date: %+v", res)
	}
}

func TestCompleteTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.taskService()

	created := svc.Create(ctx, CreateTaskRequest{Title: "t"})
	id := created.Value().ID

	res := svc.Complete(ctx, id, "done notes")
	if !res.IsSuccess() {
		t.Fatalf("Complete failed: %v", res.Err())
	}
	if res.Value().Status != string(task.StatusDone) || res.Value().CompletionNotes != "done notes" {
		t.Fatalf("response = %+v", res.Value())
	}
	if len(f.notifier.completed) != 1 || f.notifier.completed[0] != id {
		t.Fatalf("notifications = %v", f.notifier.completed)
	}

	stored, _ := f.tasks.Get(ctx, id)
	if stored.Status() != task.StatusDone {
		t.Fatal("completion not persisted")
	}
}

func TestCompleteTaskTwiceFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.taskService()

	id := svc.Create(ctx, CreateTaskRequest{Title: "t"}).Value().ID
	if res := svc.Complete(ctx, id, "first"); !res.IsSuccess() {
		t.Fatalf("first Complete failed: %v", res.Err())
	}

	res := svc.Complete(ctx, id, "second")
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Err().Code != result.CodeValidation {
		t.Fatalf("code = %s", res.Err().Code)
	}
	// First completion must be untouched, and no second notification sent.
	stored, _ := f.tasks.Get(ctx, id)
	if stored.CompletionNotes() != "first" {
		t.Fatalf("notes = %q", stored.CompletionNotes())
	}
	if len(f.notifier.completed) != 1 {
		t.Fatalf("notifications = %d", len(f.notifier.completed))
	}
}

func TestCompleteTaskNotFound(t *testing.T) {
	f := newFixture()
	res := f.taskService().Complete(context.Background(), "ghost", "")
	if res.IsSuccess() || res.Err().Code != result.CodeNotFound {
		t.Fatalf("res = %+v", res)
	}
}

func TestCompleteTaskNotifierFailureKeepsCommit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.notifier.err = errors.New("webhook down")
	svc := f.taskService()

	id := svc.Create(ctx, CreateTaskRequest{Title: "t"}).Value().ID
	res := svc.Complete(ctx, id, "notes")
	if res.IsSuccess() {
		t.Fatal("expected failure when notification fails")
	}

	// The persisted completion must not be undone.
	stored, _ := f.tasks.Get(ctx, id)
	if stored.Status() != task.StatusDone {
		t.Fatal("notification failure undid the completion")
	}
}

func TestCompleteTaskSaveFailureLeavesStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.taskService()

	id := svc.Create(ctx, CreateTaskRequest{Title: "t"}).Value().ID
	f.tasks.saveErr = func(*task.Task) error { return errors.New("disk full") }

	res := svc.Complete(ctx, id, "")
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Err().Code != result.CodeBusinessRule {
		t.Fatalf("code = %s", res.Err().Code)
	}

	f.tasks.saveErr = nil
	stored, _ := f.tasks.Get(ctx, id)
	if stored.Status() != task.StatusTodo {
		t.Fatal("failed save leaked state into the store")
	}
	if len(f.notifier.completed) != 0 {
		t.Fatal("notification sent despite failed save")
	}
}

func TestStartTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.taskService()

	id := svc.Create(ctx, CreateTaskRequest{Title: "t"}).Value().ID
	res := svc.Start(ctx, id)
	if !res.IsSuccess() || res.Value().Status != string(task.StatusInProgress) {
		t.Fatalf("Start: %+v", res)
	}

	// Starting again is not a legal transition.
	res = svc.Start(ctx, id)
	if res.IsSuccess() || res.Err().Code != result.CodeValidation {
		t.Fatalf("second Start: %+v", res)
	}
}

func TestSetPriorityHighNotifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.taskService()

	id := svc.Create(ctx, CreateTaskRequest{Title: "t"}).Value().ID

	res := svc.SetPriority(ctx, id, "LOW")
	if !res.IsSuccess() {
		t.Fatalf("SetPriority LOW: %v", res.Err())
	}
	if len(f.notifier.highPriority) != 0 {
		t.Fatal("LOW priority must not notify")
	}

	res = svc.SetPriority(ctx, id, "HIGH")
	if !res.IsSuccess() {
		t.Fatalf("SetPriority HIGH: %v", res.Err())
	}
	if len(f.notifier.highPriority) != 1 {
		t.Fatalf("high priority notifications = %d", len(f.notifier.highPriority))
	}
}

func TestDeleteTaskIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.taskService()

	id := svc.Create(ctx, CreateTaskRequest{Title: "t"}).Value().ID
	if res := svc.Delete(ctx, id); !res.IsSuccess() {
		t.Fatalf("Delete: %v", res.Err())
	}
	if res := svc.Delete(ctx, id); !res.IsSuccess() {
		t.Fatalf("second Delete: %v", res.Err())
	}
}

func TestListByProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.taskService()

	proj := f.projectService().Create(ctx, CreateProjectRequest{Name: "Work"}).Value()
	_ = svc.Create(ctx, CreateTaskRequest{Title: "a", ProjectID: proj.ID})
	_ = svc.Create(ctx, CreateTaskRequest{Title: "b", ProjectID: proj.ID})
	_ = svc.Create(ctx, CreateTaskRequest{Title: "inbox one"})

	res := svc.ListByProject(ctx, proj.ID)
	if !res.IsSuccess() || len(res.Value()) != 2 {
		t.Fatalf("ListByProject: %+v", res)
	}
}
