package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository stores tasks. Every single-task operation is scoped by both
// task id and owner id; a task owned by someone else is reported exactly
// like a missing one, with common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Task, error)
	UpdateByIDAndOwner(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Task, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
