package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// DocumentHandler serves workspace document endpoints.
type DocumentHandler struct {
	documents *services.DocumentService
}

func NewDocumentHandler(documents *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type createDocumentRequest struct {
	Title   string `json:"title" validate:"required,max=256"`
	Content string `json:"content"`
}

type updateDocumentRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=256"`
	Content *string `json:"content"`
}

// POST /api/workspaces/:workspaceID/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var req createDocumentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	doc, err := h.documents.Create(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), req.Title, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"document": doc})
}

// GET /api/workspaces/:workspaceID/documents
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"documents": docs})
}

// GET /api/workspaces/:workspaceID/documents/:documentID
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documents.Get(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("documentID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"document": doc})
}

// PATCH /api/workspaces/:workspaceID/documents/:documentID
func (h *DocumentHandler) Update(c *gin.Context) {
	var req updateDocumentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	doc, err := h.documents.Update(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("documentID"),
		services.UpdateDocumentInput{Title: req.Title, Content: req.Content})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"document": doc})
}

// DELETE /api/workspaces/:workspaceID/documents/:documentID
func (h *DocumentHandler) Delete(c *gin.Context) {
	err := h.documents.Delete(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("documentID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
