package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
	apperrors "github.com/uniworkhq/uniwork/pkg/errors"
)

var validTaskStatuses = map[string]struct{}{
	models.TaskStatusTodo:       {},
	models.TaskStatusInProgress: {},
	models.TaskStatusDone:       {},
}

// TaskService manages workspace tasks.
type TaskService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewTaskService constructs a TaskService with the provided dependencies.
func NewTaskService(db *gorm.DB, audit *AuditService) (*TaskService, error) {
	if db == nil {
		return nil, errors.New("task service: db is required")
	}
	return &TaskService{db: db, audit: audit}, nil
}

// CreateTaskInput describes the payload accepted by Create.
type CreateTaskInput struct {
	Title       string
	Description string
	AssigneeID  string
	DueAt       *time.Time
}

// Create adds a task to the workspace. Requires the task:create permission.
func (s *TaskService) Create(ctx context.Context, workspaceID, actorID string, input CreateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionTaskCreate); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("task title is required")
	}

	task := &models.Task{
		WorkspaceID: workspaceID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      models.TaskStatusTodo,
		CreatedByID: actorID,
		DueAt:       input.DueAt,
	}
	if assignee := strings.TrimSpace(input.AssigneeID); assignee != "" {
		if _, err := workspaceRole(ctx, s.db, workspaceID, assignee); err != nil {
			return nil, apperrors.NewBadRequest("assignee is not a member of this workspace")
		}
		task.AssigneeID = &assignee
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("task service: create task: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditTaskCreated,
		UserID:      actorID,
		WorkspaceID: workspaceID,
		Details:     map[string]any{"task_id": task.ID, "title": task.Title},
	})

	return task, nil
}

// UpdateTaskInput describes mutable task fields. Nil pointers leave the field unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	AssigneeID  *string
	DueAt       *time.Time
}

// Update modifies a task. Requires the task:update permission.
func (s *TaskService) Update(ctx context.Context, workspaceID, actorID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionTaskUpdate); err != nil {
		return nil, err
	}

	task, err := s.get(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("task title is required")
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if _, ok := validTaskStatuses[*input.Status]; !ok {
			return nil, apperrors.NewBadRequest("unknown task status")
		}
		updates["status"] = *input.Status
	}
	if input.AssigneeID != nil {
		assignee := strings.TrimSpace(*input.AssigneeID)
		if assignee == "" {
			updates["assignee_id"] = nil
		} else {
			if _, err := workspaceRole(ctx, s.db, workspaceID, assignee); err != nil {
				return nil, apperrors.NewBadRequest("assignee is not a member of this workspace")
			}
			updates["assignee_id"] = assignee
		}
	}
	if input.DueAt != nil {
		updates["due_at"] = *input.DueAt
	}

	if len(updates) == 0 {
		return task, nil
	}
	if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("task service: update task: %w", err)
	}

	return s.get(ctx, workspaceID, taskID)
}

// Delete removes a task. Requires the task:delete permission.
func (s *TaskService) Delete(ctx context.Context, workspaceID, actorID, taskID string) error {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionTaskDelete); err != nil {
		return err
	}

	task, err := s.get(ctx, workspaceID, taskID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("task service: delete task: %w", err)
	}
	return nil
}

// List returns the workspace's tasks, optionally filtered by status.
func (s *TaskService) List(ctx context.Context, workspaceID, actorID, status string) ([]models.Task, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Preload("Assignee").
		Where("workspace_id = ?", workspaceID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task service: list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task visible to the actor.
func (s *TaskService) Get(ctx context.Context, workspaceID, actorID, taskID string) (*models.Task, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, err
	}
	return s.get(ctx, workspaceID, taskID)
}

func (s *TaskService) get(ctx context.Context, workspaceID, taskID string) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, taskID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("task service: load task: %w", err)
	}
	return &task, nil
}
