package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// WorkspaceHandler serves workspace CRUD and membership management.
type WorkspaceHandler struct {
	workspaces *services.WorkspaceService
}

func NewWorkspaceHandler(workspaces *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

type createWorkspaceRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Slug        string `json:"slug" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"omitempty,max=512"`
}

type updateWorkspaceRequest struct {
	Name        string  `json:"name" validate:"omitempty,max=128"`
	Description *string `json:"description" validate:"omitempty,max=512"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// POST /api/workspaces
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req createWorkspaceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	workspace, err := h.workspaces.Create(requestContext(c), c.GetString(middleware.CtxUserIDKey), services.CreateWorkspaceInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"workspace": workspace})
}

// GET /api/workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
	workspaces, err := h.workspaces.ListForUser(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workspaces": workspaces})
}

// GET /api/workspaces/:workspaceID
func (h *WorkspaceHandler) Get(c *gin.Context) {
	workspace, err := h.workspaces.Get(requestContext(c), c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workspace": workspace})
}

// PATCH /api/workspaces/:workspaceID
func (h *WorkspaceHandler) Update(c *gin.Context) {
	var req updateWorkspaceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	workspace, err := h.workspaces.Update(requestContext(c), c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), services.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workspace": workspace})
}

// DELETE /api/workspaces/:workspaceID
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	err := h.workspaces.Delete(requestContext(c), c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/workspaces/:workspaceID/members
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	members, err := h.workspaces.ListMembers(requestContext(c), c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// DELETE /api/workspaces/:workspaceID/members/:userID
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	err := h.workspaces.RemoveMember(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("userID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

// PATCH /api/workspaces/:workspaceID/members/:userID
func (h *WorkspaceHandler) UpdateMemberRole(c *gin.Context) {
	var req updateMemberRoleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.workspaces.UpdateMemberRole(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("userID"), rbac.Role(req.Role))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
