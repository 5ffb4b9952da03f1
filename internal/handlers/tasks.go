package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// TaskHandler serves workspace task endpoints.
type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=256"`
	Description string     `json:"description" validate:"omitempty,max=4096"`
	AssigneeID  string     `json:"assignee_id" validate:"omitempty,uuid4"`
	DueAt       *time.Time `json:"due_at"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=256"`
	Description *string    `json:"description" validate:"omitempty,max=4096"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID  *string    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

// POST /api/workspaces/:workspaceID/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	task, err := h.tasks.Create(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey),
		services.CreateTaskInput{
			Title:       req.Title,
			Description: req.Description,
			AssigneeID:  req.AssigneeID,
			DueAt:       req.DueAt,
		})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": task})
}

// GET /api/workspaces/:workspaceID/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.List(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": tasks})
}

// GET /api/workspaces/:workspaceID/tasks/:taskID
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("taskID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// PATCH /api/workspaces/:workspaceID/tasks/:taskID
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	task, err := h.tasks.Update(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("taskID"),
		services.UpdateTaskInput{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			AssigneeID:  req.AssigneeID,
			DueAt:       req.DueAt,
		})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// DELETE /api/workspaces/:workspaceID/tasks/:taskID
func (h *TaskHandler) Delete(c *gin.Context) {
	err := h.tasks.Delete(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("taskID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
