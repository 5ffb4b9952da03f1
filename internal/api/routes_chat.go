package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func registerChatRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewChatHandler(d.chat)

	channels := api.Group("/workspaces/:workspaceID/channels")
	{
		channels.POST("",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionChannelCreate), h.CreateChannel)
		channels.GET("", h.ListChannels)
		channels.DELETE("/:channelID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionChannelDelete), h.DeleteChannel)

		channels.POST("/:channelID/messages",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionMessageSend), h.PostMessage)
		channels.GET("/:channelID/messages", h.ListMessages)
	}
}
