package service

import (
	"context"
	"log/slog"

	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/repository"
)

// compensation accumulates restore steps for an in-flight multi-write
// operation. A step is registered only after its corresponding save has
// succeeded, so every registered snapshot shadows state that really is in
// the store. Restore runs the steps in registration order.
type compensation struct {
	steps []func(ctx context.Context) error
}

// deferTaskRestore registers a step that saves the given pre-mutation
// snapshot back.
func (c *compensation) deferTaskRestore(repo repository.TaskRepository, snapshot *task.Task) {
	c.steps = append(c.steps, func(ctx context.Context) error {
		return repo.Save(ctx, snapshot)
	})
}

// restore replays every registered snapshot. Restoring a previously saved
// snapshot is expected to succeed; if it does not, the store is in an
// inconsistent state no Result can describe, so the failure is escalated
// as a panic after logging.
func (c *compensation) restore(ctx context.Context) {
	for _, step := range c.steps {
		if err := step(ctx); err != nil {
			slog.Error("compensating restore failed, store may be inconsistent", "error", err)
			panic("service: compensating restore failed: " + err.Error())
		}
	}
	c.steps = nil
}
