package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// ChatHandler serves channel and message endpoints.
type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type createChannelRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description" validate:"omitempty,max=512"`
}

type postMessageRequest struct {
	Body string `json:"body" validate:"required,max=8192"`
}

// POST /api/workspaces/:workspaceID/channels
func (h *ChatHandler) CreateChannel(c *gin.Context) {
	var req createChannelRequest
	if !bindAndValidate(c, &req) {
		return
	}

	channel, err := h.chat.CreateChannel(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"channel": channel})
}

// GET /api/workspaces/:workspaceID/channels
func (h *ChatHandler) ListChannels(c *gin.Context) {
	channels, err := h.chat.ListChannels(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"channels": channels})
}

// DELETE /api/workspaces/:workspaceID/channels/:channelID
func (h *ChatHandler) DeleteChannel(c *gin.Context) {
	err := h.chat.DeleteChannel(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("channelID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/workspaces/:workspaceID/channels/:channelID/messages
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	message, err := h.chat.PostMessage(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("channelID"), req.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": message})
}

// GET /api/workspaces/:workspaceID/channels/:channelID/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	messages, total, err := h.chat.ListMessages(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("channelID"), page, perPage)
	if err != nil {
		response.Error(c, err)
		return
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	response.SuccessWithMeta(c, http.StatusOK, gin.H{"messages": messages}, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      int(total),
		TotalPages: totalPages,
	})
}
