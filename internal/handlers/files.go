package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// FileHandler serves file catalogue endpoints.
type FileHandler struct {
	files *services.FileService
}

func NewFileHandler(files *services.FileService) *FileHandler {
	return &FileHandler{files: files}
}

type createFileRequest struct {
	Name       string `json:"name" validate:"required,max=256"`
	MimeType   string `json:"mime_type" validate:"omitempty,max=128"`
	Size       int64  `json:"size" validate:"omitempty,min=0"`
	Provider   string `json:"provider" validate:"omitempty,oneof=google dropbox onedrive"`
	ExternalID string `json:"external_id" validate:"omitempty,max=256"`
}

// POST /api/workspaces/:workspaceID/files
func (h *FileHandler) Create(c *gin.Context) {
	var req createFileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	file, err := h.files.Create(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey),
		services.CreateFileInput{
			Name:       req.Name,
			MimeType:   req.MimeType,
			Size:       req.Size,
			Provider:   req.Provider,
			ExternalID: req.ExternalID,
		})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"file": file})
}

// GET /api/workspaces/:workspaceID/files
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.files.List(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"files": files})
}

// DELETE /api/workspaces/:workspaceID/files/:fileID
func (h *FileHandler) Delete(c *gin.Context) {
	err := h.files.Delete(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("fileID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
