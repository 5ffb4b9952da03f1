package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// AssistantHandler serves assistant conversation endpoints.
type AssistantHandler struct {
	assistant *services.AssistantService
}

func NewAssistantHandler(assistant *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type startConversationRequest struct {
	Title string `json:"title" validate:"omitempty,max=256"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=8192"`
}

// POST /api/workspaces/:workspaceID/assistant/conversations
func (h *AssistantHandler) StartConversation(c *gin.Context) {
	var req startConversationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	conversation, err := h.assistant.StartConversation(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), req.Title)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"conversation": conversation})
}

// GET /api/workspaces/:workspaceID/assistant/conversations
func (h *AssistantHandler) ListConversations(c *gin.Context) {
	conversations, err := h.assistant.ListConversations(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversations": conversations})
}

// GET /api/workspaces/:workspaceID/assistant/conversations/:conversationID
func (h *AssistantHandler) GetConversation(c *gin.Context) {
	conversation, err := h.assistant.GetConversation(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("conversationID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversation": conversation})
}

// POST /api/workspaces/:workspaceID/assistant/conversations/:conversationID/messages
func (h *AssistantHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	reply, err := h.assistant.SendMessage(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("conversationID"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reply": reply})
}
