// Package cached decorates a task repository with a ristretto in-process
// read cache. Reads by id are served from the cache when possible; writes
// and deletes invalidate. List queries always go to the underlying store.
package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/taskwell/taskwell/internal/domain/task"
	"github.com/taskwell/taskwell/internal/port/repository"
)

// TaskRepository wraps another task repository with a ristretto cache.
type TaskRepository struct {
	next  repository.TaskRepository
	cache *ristretto.Cache[string, []byte]
	ttl   time.Duration
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates the caching decorator. maxCostBytes is the
// maximum total size of cached rows in bytes.
func NewTaskRepository(next repository.TaskRepository, maxCostBytes int64, ttl time.Duration) (*TaskRepository, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &TaskRepository{next: next, cache: c, ttl: ttl}, nil
}

// Close shuts down the cache and releases resources.
func (r *TaskRepository) Close() {
	r.cache.Close()
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	if data, ok := r.cache.Get(id); ok {
		var rec task.Record
		if err := json.Unmarshal(data, &rec); err == nil {
			return task.FromRecord(rec), nil
		}
		// Unreadable entry, fall through to the store.
		r.cache.Del(id)
	}

	t, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.put(t)
	return t, nil
}

func (r *TaskRepository) put(t *task.Task) {
	data, err := json.Marshal(t.Record())
	if err != nil {
		return
	}
	r.cache.SetWithTTL(t.ID(), data, int64(len(data)), r.ttl)
}

func (r *TaskRepository) Save(ctx context.Context, t *task.Task) error {
	if err := r.next.Save(ctx, t); err != nil {
		return err
	}
	r.cache.Del(t.ID())
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Del(id)
	return nil
}

func (r *TaskRepository) FindByProject(ctx context.Context, projectID string) ([]*task.Task, error) {
	return r.next.FindByProject(ctx, projectID)
}

func (r *TaskRepository) GetActiveTasks(ctx context.Context) ([]*task.Task, error) {
	return r.next.GetActiveTasks(ctx)
}
