package memory

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// TaskRepository implements tasks.Repository on a Store.
type TaskRepository struct {
	s *Store
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	defer r.s.lock(ctx)()

	now := r.s.now()
	task.CreatedAt, task.UpdatedAt = now, now
	r.s.tasks = append(r.s.tasks, copyTask(task))
	return task, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	defer r.s.rlock(ctx)()

	out := make([]*models.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == ownerID {
			out = append(out, copyTask(t))
		}
	}
	return out, nil
}

func (r *TaskRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Task, error) {
	defer r.s.rlock(ctx)()

	i := r.index(id, ownerID)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return copyTask(r.s.tasks[i]), nil
}

func (r *TaskRepository) UpdateByIDAndOwner(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error) {
	defer r.s.lock(ctx)()

	i := r.index(id, ownerID)
	if i < 0 {
		return nil, common.ErrorNotFound
	}

	t := r.s.tasks[i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = r.s.now()

	return copyTask(t), nil
}

func (r *TaskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Task, error) {
	defer r.s.lock(ctx)()

	i := r.index(id, ownerID)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	t := r.s.tasks[i]
	r.s.tasks = append(r.s.tasks[:i], r.s.tasks[i+1:]...)
	return t, nil
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	defer r.s.lock(ctx)()

	kept := r.s.tasks[:0]
	var n int64
	for _, t := range r.s.tasks {
		if t.UserID == ownerID {
			n++
			continue
		}
		kept = append(kept, t)
	}
	r.s.tasks = kept
	return n, nil
}

func (r *TaskRepository) index(id, ownerID string) int {
	for i, t := range r.s.tasks {
		if t.ID == id && t.UserID == ownerID {
			return i
		}
	}
	return -1
}
