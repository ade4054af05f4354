package jsonfile

import (
	"context"
	"errors"
	"testing"

	"github.com/taskwell/taskwell/internal/domain"
	"github.com/taskwell/taskwell/internal/domain/task"
)

func newStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1 := newStore(t, dir)
	tk, err := task.New(task.Params{Title: "persisted", ProjectID: "p1"})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}
	if err := s1.Tasks().Save(ctx, tk); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s2 := newStore(t, dir)
	got, err := s2.Tasks().Get(ctx, tk.ID())
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if got.Title() != "persisted" {
		t.Fatalf("title = %q", got.Title())
	}
}

func TestInboxSurvivesReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1 := newStore(t, dir)
	inbox, err := s1.Projects().GetInbox(ctx)
	if err != nil {
		t.Fatalf("GetInbox: %v", err)
	}

	s2 := newStore(t, dir)
	again, err := s2.Projects().GetInbox(ctx)
	if err != nil {
		t.Fatalf("GetInbox after reload: %v", err)
	}
	if again.ID() != inbox.ID() {
		t.Fatal("reload created a second inbox")
	}
}

func TestDeleteIdempotentAndPersisted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1 := newStore(t, dir)
	tk, _ := task.New(task.Params{Title: "t"})
	_ = s1.Tasks().Save(ctx, tk)
	if err := s1.Tasks().Delete(ctx, tk.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s1.Tasks().Delete(ctx, tk.ID()); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	s2 := newStore(t, dir)
	if _, err := s2.Tasks().Get(ctx, tk.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateOverwritesRow(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, t.TempDir())

	tk, _ := task.New(task.Params{Title: "t"})
	_ = s.Tasks().Save(ctx, tk)
	if err := tk.Complete("done"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	_ = s.Tasks().Save(ctx, tk)

	got, err := s.Tasks().Get(ctx, tk.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status() != task.StatusDone || got.CompletionNotes() != "done" {
		t.Fatal("update not persisted")
	}
	all, _ := s.Tasks().FindByProject(ctx, tk.ProjectID())
	if len(all) != 1 {
		t.Fatalf("store holds %d rows, want 1", len(all))
	}
}
