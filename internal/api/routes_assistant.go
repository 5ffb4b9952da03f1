package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
)

func registerAssistantRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewAssistantHandler(d.assistant)

	// Any workspace member may use the assistant; conversations are scoped to
	// their author inside the service.
	assistant := api.Group("/workspaces/:workspaceID/assistant",
		middleware.RequireWorkspaceMember(d.workspaces))
	{
		assistant.POST("/conversations", h.StartConversation)
		assistant.GET("/conversations", h.ListConversations)
		assistant.GET("/conversations/:conversationID", h.GetConversation)
		assistant.POST("/conversations/:conversationID/messages", h.SendMessage)
	}
}
