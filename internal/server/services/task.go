package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CreateTaskInput is a new task. Description defaults to "" and Status to
// to-do when omitted.
type CreateTaskInput struct {
	Title       string  `json:"title" validate:"notblank"`
	Description *string `json:"desc"`
	Status      *string `json:"status" validate:"omitnil,oneof=to-do in-progress done"`
}

// UpdateTaskInput lists task changes; nil fields stay as they are.
type UpdateTaskInput struct {
	Title       *string `json:"title" validate:"omitnil,notblank"`
	Description *string `json:"desc"`
	Status      *string `json:"status" validate:"omitnil,oneof=to-do in-progress done"`
}

// TaskService runs task operations on behalf of an authenticated owner.
// Every lookup is scoped to that owner, so a task that belongs to somebody
// else is indistinguishable from one that does not exist.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create stores a new task for the owner. An owner whose account is gone
// is unauthorized even while its access token is still valid.
func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*models.Task, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	status := models.StatusToDo
	if in.Status != nil {
		parsed, err := models.ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, ownerID); err != nil {
		return nil, ownerError(err)
	}

	task := &models.Task{
		ID:     uuid.NewString(),
		Title:  in.Title,
		Status: status,
		UserID: ownerID,
	}
	if in.Description != nil {
		task.Description = *in.Description
	}

	created, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		// the owner was deleted after the lookup
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, storeError("create task", err)
	}
	return created, nil
}

func ownerError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnauthorized
	}
	return storeError("lookup owner", err)
}

// List returns every task of the owner; an owner without tasks gets an
// empty slice.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]*models.Task, error) {
	list, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("list tasks", err)
	}
	return list, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	task, err := s.repomanager.Tasks(s.db).GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, storeError("get task", err)
	}
	return task, nil
}

// Update applies the supplied fields. The status, when given, must be one
// of the known values; nothing is written otherwise.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, in UpdateTaskInput) (*models.Task, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	patch := models.TaskPatch{Title: in.Title, Description: in.Description}
	if in.Status != nil {
		status, err := models.ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		patch.Status = &status
	}

	if patch.Empty() {
		return s.Get(ctx, ownerID, id)
	}
	return s.update(ctx, ownerID, id, patch)
}

// SetStatus moves the task to status.
func (s *TaskService) SetStatus(ctx context.Context, ownerID, id, status string) (*models.Task, error) {
	if status == "" {
		return nil, common.NewValidationError("status", "status is required")
	}
	parsed, err := models.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, ownerID, id, models.TaskPatch{Status: &parsed})
}

// Delete removes the task and returns it.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	task, err := s.repomanager.Tasks(s.db).DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, storeError("delete task", err)
	}
	return task, nil
}

func (s *TaskService) update(ctx context.Context, ownerID, id string, patch models.TaskPatch) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	task, err := s.repomanager.Tasks(s.db).UpdateByIDAndOwner(ctx, id, ownerID, patch)
	if err != nil {
		return nil, storeError("update task", err)
	}
	return task, nil
}
